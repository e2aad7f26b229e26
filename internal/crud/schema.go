// Package crud drives create/edit/delete panels for any entity from a
// declarative field schema and four remote operations.
package crud

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldType selects the input kind rendered for a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
)

// Field describes one editable attribute. Name is the entity's JSON key.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
}

// Values holds form input keyed by field name.
type Values map[string]interface{}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Decode converts the values into dest through their JSON form.
func (v Values) Decode(dest interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// API is the remote side of a panel.
type API[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, values Values) error
	Update(ctx context.Context, id string, values Values) error
	Remove(ctx context.Context, id string) error
}

// NoticeKind classifies a notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message for the operator.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// Notifier receives notices raised by a panel.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Config parameterises a Panel for one entity type.
type Config[T any] struct {
	// Noun names one entity in notices, e.g. "Student".
	Noun   string
	Fields []Field
	API    API[T]
	ID     func(T) string

	CanEdit   func(T) bool
	CanDelete func(T) bool
	Notifier  Notifier
}

func (c Config[T]) validate() error {
	if c.Noun == "" || len(c.Fields) == 0 || c.API == nil || c.ID == nil {
		return fmt.Errorf("crud: noun, fields, api and id are required")
	}
	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Name == "" || seen[f.Name] {
			return fmt.Errorf("crud: duplicate or empty field name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// fieldValues extracts the schema fields of row from its JSON encoding.
func fieldValues[T any](row T, fields []Field) (Values, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var all map[string]interface{}
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("crud: row is not an object: %w", err)
	}
	values := make(Values, len(fields))
	for _, f := range fields {
		if v, ok := all[f.Name]; ok {
			values[f.Name] = v
		}
	}
	return values, nil
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func missing(f Field, v interface{}, ok bool) bool {
	if !ok || v == nil {
		return true
	}
	if s, isString := v.(string); isString && f.Type != FieldCheckbox {
		return strings.TrimSpace(s) == ""
	}
	return false
}
