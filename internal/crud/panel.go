package crud

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingField is returned by Submit when a required field is empty.
var ErrMissingField = errors.New("crud: required field missing")

// ErrNothingPending is returned by ConfirmDelete without a prior RequestDelete.
var ErrNothingPending = errors.New("crud: no delete pending")

// ErrNotAllowed is returned when a row predicate suppresses the action.
var ErrNotAllowed = errors.New("crud: action not allowed for this row")

// UnableToEdit is shown in place of row actions when both are suppressed.
const UnableToEdit = "Unable to edit"

// Row is one rendered table line.
type Row struct {
	ID          string   `json:"id"`
	Cells       []string `json:"cells"`
	CanEdit     bool     `json:"canEdit"`
	CanDelete   bool     `json:"canDelete"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Panel holds the local copy of the entities plus form and delete state. It
// is not safe for concurrent use; there is no optimistic locking, the last
// write wins.
type Panel[T any] struct {
	cfg     Config[T]
	items   []T
	form    Values
	editing *string
	pending *T
}

// NewPanel validates cfg and returns an empty panel. Call Load to populate it.
func NewPanel[T any](cfg Config[T]) (*Panel[T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NotifierFunc(func(Notice) {})
	}
	return &Panel[T]{cfg: cfg, form: Values{}}, nil
}

// Fields returns the schema in display order.
func (p *Panel[T]) Fields() []Field { return p.cfg.Fields }

// Noun returns the configured entity noun.
func (p *Panel[T]) Noun() string { return p.cfg.Noun }

// Items returns the local copy.
func (p *Panel[T]) Items() []T { return p.items }

// Load replaces the local copy with the remote list.
func (p *Panel[T]) Load(ctx context.Context) error {
	items, err := p.cfg.API.List(ctx)
	if err != nil {
		p.fail(fmt.Sprintf("Failed to load %ss. Please try again later.", p.cfg.Noun))
		return err
	}
	p.items = items
	return nil
}

// Set stores one form value. Names outside the schema are rejected.
func (p *Panel[T]) Set(name string, value interface{}) error {
	if _, ok := p.field(name); !ok {
		return fmt.Errorf("crud: unknown field %q", name)
	}
	p.form[name] = value
	return nil
}

// Form returns a copy of the current form values.
func (p *Panel[T]) Form() Values { return p.form.Clone() }

// Editing reports the id of the entity being edited.
func (p *Panel[T]) Editing() (string, bool) {
	if p.editing == nil {
		return "", false
	}
	return *p.editing, true
}

// Reset clears the form and leaves edit mode.
func (p *Panel[T]) Reset() {
	p.form = Values{}
	p.editing = nil
}

// Edit copies the schema fields of row into the form and marks it as the
// edit target.
func (p *Panel[T]) Edit(row T) error {
	if p.cfg.CanEdit != nil && !p.cfg.CanEdit(row) {
		return ErrNotAllowed
	}
	values, err := fieldValues(row, p.cfg.Fields)
	if err != nil {
		return err
	}
	id := p.cfg.ID(row)
	p.form = values
	p.editing = &id
	return nil
}

// Submit creates a new entity, or updates the edit target, then re-lists. On
// failure the form is left as it was.
func (p *Panel[T]) Submit(ctx context.Context) error {
	verb := "create"
	if p.editing != nil {
		verb = "update"
	}
	for _, f := range p.cfg.Fields {
		if !f.Required {
			continue
		}
		if v, ok := p.form[f.Name]; missing(f, v, ok) {
			p.fail(fmt.Sprintf("%s is required", f.Label))
			return fmt.Errorf("%w: %s", ErrMissingField, f.Name)
		}
	}

	var err error
	if p.editing != nil {
		err = p.cfg.API.Update(ctx, *p.editing, p.form.Clone())
	} else {
		err = p.cfg.API.Create(ctx, p.form.Clone())
	}
	if err != nil {
		p.fail(fmt.Sprintf("Failed to %s %s", verb, p.cfg.Noun))
		return err
	}
	p.cfg.Notifier.Notify(Notice{Kind: NoticeSuccess, Title: "Success", Message: fmt.Sprintf("%s %sd", p.cfg.Noun, verb)})

	p.Reset()
	return p.Load(ctx)
}

// RequestDelete stages row for deletion; nothing is sent until ConfirmDelete.
func (p *Panel[T]) RequestDelete(row T) error {
	if p.cfg.CanDelete != nil && !p.cfg.CanDelete(row) {
		return ErrNotAllowed
	}
	p.pending = &row
	return nil
}

// PendingDelete returns the staged row, if any.
func (p *Panel[T]) PendingDelete() (T, bool) {
	if p.pending == nil {
		var zero T
		return zero, false
	}
	return *p.pending, true
}

// CancelDelete drops the staged row.
func (p *Panel[T]) CancelDelete() {
	p.pending = nil
}

// ConfirmDelete removes the staged row remotely and, on success, from the
// local copy without re-listing. A failure leaves the local copy untouched.
func (p *Panel[T]) ConfirmDelete(ctx context.Context) error {
	if p.pending == nil {
		return ErrNothingPending
	}
	id := p.cfg.ID(*p.pending)
	p.pending = nil

	if err := p.cfg.API.Remove(ctx, id); err != nil {
		p.fail(fmt.Sprintf("Failed to delete %s", p.cfg.Noun))
		return err
	}
	kept := make([]T, 0, len(p.items))
	for _, item := range p.items {
		if p.cfg.ID(item) != id {
			kept = append(kept, item)
		}
	}
	p.items = kept
	p.cfg.Notifier.Notify(Notice{Kind: NoticeSuccess, Title: "Success", Message: fmt.Sprintf("%s deleted", p.cfg.Noun)})
	return nil
}

// Rows renders the local copy in schema order with per-row actions.
func (p *Panel[T]) Rows() ([]Row, error) {
	rows := make([]Row, 0, len(p.items))
	for _, item := range p.items {
		values, err := fieldValues(item, p.cfg.Fields)
		if err != nil {
			return nil, err
		}
		row := Row{ID: p.cfg.ID(item), Cells: make([]string, len(p.cfg.Fields)), CanEdit: true, CanDelete: true}
		for i, f := range p.cfg.Fields {
			row.Cells[i] = formatCell(values[f.Name])
		}
		if p.cfg.CanEdit != nil {
			row.CanEdit = p.cfg.CanEdit(item)
		}
		if p.cfg.CanDelete != nil {
			row.CanDelete = p.cfg.CanDelete(item)
		}
		if !row.CanEdit && !row.CanDelete {
			row.Placeholder = UnableToEdit
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *Panel[T]) field(name string) (Field, bool) {
	for _, f := range p.cfg.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (p *Panel[T]) fail(message string) {
	p.cfg.Notifier.Notify(Notice{Kind: NoticeError, Title: "Error", Message: message})
}
