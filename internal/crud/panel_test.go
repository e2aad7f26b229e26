package crud

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type student struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	NetID    string `json:"netId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Credits  int    `json:"credits"`
}

type fakeStudentAPI struct {
	rows      []student
	seq       int
	lists     int
	created   []Values
	updated   map[string]Values
	failWrite error
	failList  error
}

func (f *fakeStudentAPI) List(context.Context) ([]student, error) {
	f.lists++
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]student(nil), f.rows...), nil
}

func (f *fakeStudentAPI) Create(_ context.Context, values Values) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	var s student
	if err := values.Decode(&s); err != nil {
		return err
	}
	f.seq++
	s.ID = fmt.Sprintf("s%d", f.seq)
	f.rows = append(f.rows, s)
	f.created = append(f.created, values)
	return nil
}

func (f *fakeStudentAPI) Update(_ context.Context, id string, values Values) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	if f.updated == nil {
		f.updated = map[string]Values{}
	}
	f.updated[id] = values
	for i := range f.rows {
		if f.rows[i].ID == id {
			if err := values.Decode(&f.rows[i]); err != nil {
				return err
			}
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStudentAPI) Remove(_ context.Context, id string) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

var studentFields = []Field{
	{Name: "fullName", Label: "Full Name", Type: FieldText, Required: true},
	{Name: "netId", Label: "NetID", Type: FieldText, Required: true},
	{Name: "email", Label: "Email", Type: FieldText, Required: true},
	{Name: "credits", Label: "Credits", Type: FieldNumber},
}

func newStudentPanel(t *testing.T, api *fakeStudentAPI, notices *[]Notice) *Panel[student] {
	t.Helper()
	panel, err := NewPanel(Config[student]{
		Noun:      "Student",
		Fields:    studentFields,
		API:       api,
		ID:        func(s student) string { return s.ID },
		CanEdit:   func(s student) bool { return s.Role != "ADMIN" },
		CanDelete: func(s student) bool { return s.Role != "ADMIN" },
		Notifier:  NotifierFunc(func(n Notice) { *notices = append(*notices, n) }),
	})
	require.NoError(t, err)
	return panel
}

func TestNewPanelRejectsIncompleteConfig(t *testing.T) {
	_, err := NewPanel(Config[student]{Noun: "Student"})
	assert.Error(t, err)

	_, err = NewPanel(Config[student]{
		Noun:   "Student",
		Fields: []Field{{Name: "a"}, {Name: "a"}},
		API:    &fakeStudentAPI{},
		ID:     func(s student) string { return s.ID },
	})
	assert.Error(t, err)
}

func TestPanelCreateThenRelist(t *testing.T) {
	api := &fakeStudentAPI{}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)
	ctx := context.Background()

	require.NoError(t, panel.Load(ctx))
	require.NoError(t, panel.Set("fullName", "Sam One"))
	require.NoError(t, panel.Set("netId", "s1"))
	require.NoError(t, panel.Set("email", "s1@campus.edu"))
	assert.Error(t, panel.Set("password", "x"))

	require.NoError(t, panel.Submit(ctx))
	assert.Equal(t, 2, api.lists)
	require.Len(t, panel.Items(), 1)
	assert.Empty(t, panel.Form())
	require.Len(t, notices, 1)
	assert.Equal(t, Notice{Kind: NoticeSuccess, Title: "Success", Message: "Student created"}, notices[0])
}

func TestPanelRequiredFieldsKeepForm(t *testing.T) {
	api := &fakeStudentAPI{}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)

	require.NoError(t, panel.Set("fullName", "Sam One"))
	require.NoError(t, panel.Set("netId", "  "))
	err := panel.Submit(context.Background())
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Empty(t, api.created)
	assert.Equal(t, "Sam One", panel.Form()["fullName"])
	assert.Equal(t, "NetID is required", notices[0].Message)
}

func TestPanelEditRoundTripsSchemaFields(t *testing.T) {
	api := &fakeStudentAPI{rows: []student{{ID: "s1", FullName: "Sam One", NetID: "s1", Email: "s1@campus.edu", Role: "STUDENT", Credits: 12}}}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)
	ctx := context.Background()
	require.NoError(t, panel.Load(ctx))

	require.NoError(t, panel.Edit(panel.Items()[0]))
	id, editing := panel.Editing()
	assert.True(t, editing)
	assert.Equal(t, "s1", id)

	form := panel.Form()
	assert.Len(t, form, len(studentFields))
	assert.NotContains(t, form, "role")
	assert.NotContains(t, form, "id")

	require.NoError(t, panel.Set("fullName", "Samantha One"))
	require.NoError(t, panel.Set("credits", 15))
	require.NoError(t, panel.Submit(ctx))

	_, editing = panel.Editing()
	assert.False(t, editing)
	reloaded := panel.Items()[0]
	assert.Equal(t, "Samantha One", reloaded.FullName)
	assert.Equal(t, "s1", reloaded.NetID)
	assert.Equal(t, "s1@campus.edu", reloaded.Email)
	assert.Equal(t, 15, reloaded.Credits)
	assert.Equal(t, "Student updated", notices[len(notices)-1].Message)
}

func TestPanelSubmitFailureLeavesState(t *testing.T) {
	api := &fakeStudentAPI{rows: []student{{ID: "s1", FullName: "Sam", NetID: "s1", Email: "s1@campus.edu"}}}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)
	ctx := context.Background()
	require.NoError(t, panel.Load(ctx))
	require.NoError(t, panel.Edit(panel.Items()[0]))

	api.failWrite = errors.New("boom")
	require.NoError(t, panel.Set("fullName", "Changed"))
	assert.Error(t, panel.Submit(ctx))

	_, editing := panel.Editing()
	assert.True(t, editing)
	assert.Equal(t, "Changed", panel.Form()["fullName"])
	assert.Equal(t, "Failed to update Student", notices[len(notices)-1].Message)
	assert.Equal(t, 1, api.lists)
}

func TestPanelTwoStepDelete(t *testing.T) {
	api := &fakeStudentAPI{rows: []student{{ID: "s1"}, {ID: "s2"}}}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)
	ctx := context.Background()
	require.NoError(t, panel.Load(ctx))

	assert.ErrorIs(t, panel.ConfirmDelete(ctx), ErrNothingPending)

	require.NoError(t, panel.RequestDelete(panel.Items()[0]))
	panel.CancelDelete()
	_, pending := panel.PendingDelete()
	assert.False(t, pending)
	assert.Len(t, api.rows, 2)

	require.NoError(t, panel.RequestDelete(panel.Items()[0]))
	require.NoError(t, panel.ConfirmDelete(ctx))
	require.Len(t, panel.Items(), 1)
	assert.Equal(t, "s2", panel.Items()[0].ID)
	assert.Equal(t, 1, api.lists)
	assert.Equal(t, "Student deleted", notices[len(notices)-1].Message)
}

func TestPanelDeleteKeepsEarlierItemsSliceIntact(t *testing.T) {
	api := &fakeStudentAPI{rows: []student{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)
	ctx := context.Background()
	require.NoError(t, panel.Load(ctx))

	before := panel.Items()
	require.NoError(t, panel.RequestDelete(before[0]))
	require.NoError(t, panel.ConfirmDelete(ctx))

	assert.Equal(t, []string{"s1", "s2", "s3"}, []string{before[0].ID, before[1].ID, before[2].ID})
	require.Len(t, panel.Items(), 2)
	assert.Equal(t, "s2", panel.Items()[0].ID)
	assert.Equal(t, "s3", panel.Items()[1].ID)
}

func TestPanelDeleteFailureDoesNotTouchLocalCopy(t *testing.T) {
	api := &fakeStudentAPI{rows: []student{{ID: "s1"}}}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)
	ctx := context.Background()
	require.NoError(t, panel.Load(ctx))

	api.failWrite = errors.New("fk violation")
	require.NoError(t, panel.RequestDelete(panel.Items()[0]))
	assert.Error(t, panel.ConfirmDelete(ctx))
	assert.Len(t, panel.Items(), 1)
	_, pending := panel.PendingDelete()
	assert.False(t, pending)
	assert.Equal(t, "Failed to delete Student", notices[len(notices)-1].Message)
}

func TestPanelRowsHonourPredicates(t *testing.T) {
	api := &fakeStudentAPI{rows: []student{
		{ID: "s1", FullName: "Sam", NetID: "s1", Email: "s1@campus.edu", Role: "STUDENT", Credits: 3},
		{ID: "a1", FullName: "Ada", NetID: "a1", Email: "a1@campus.edu", Role: "ADMIN"},
	}}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)
	require.NoError(t, panel.Load(context.Background()))

	rows, err := panel.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Sam", "s1", "s1@campus.edu", "3"}, rows[0].Cells)
	assert.True(t, rows[0].CanEdit)
	assert.Empty(t, rows[0].Placeholder)
	assert.False(t, rows[1].CanEdit)
	assert.False(t, rows[1].CanDelete)
	assert.Equal(t, UnableToEdit, rows[1].Placeholder)

	assert.ErrorIs(t, panel.Edit(api.rows[1]), ErrNotAllowed)
	assert.ErrorIs(t, panel.RequestDelete(api.rows[1]), ErrNotAllowed)
}

func TestPanelLoadFailureNotifies(t *testing.T) {
	api := &fakeStudentAPI{failList: errors.New("offline")}
	var notices []Notice
	panel := newStudentPanel(t, api, &notices)

	assert.Error(t, panel.Load(context.Background()))
	assert.Equal(t, "Failed to load Students. Please try again later.", notices[0].Message)
	assert.Equal(t, NoticeError, notices[0].Kind)
}
