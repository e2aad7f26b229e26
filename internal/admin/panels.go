// Package admin declares the CRUD panels behind the admin console and binds
// them to the HTTP API.
package admin

import (
	"context"

	"github.com/campus-mailroom/mailroom-api/internal/crud"
	"github.com/campus-mailroom/mailroom-api/internal/models"
)

// Schema describes one panel for clients that render their own forms.
type Schema struct {
	Key    string       `json:"key"`
	Title  string       `json:"title"`
	Noun   string       `json:"noun"`
	Fields []crud.Field `json:"fields"`
}

var (
	studentFields = []crud.Field{
		{Name: "fullName", Label: "Full Name", Type: crud.FieldText, Required: true},
		{Name: "netId", Label: "NetID", Type: crud.FieldText, Required: true},
		{Name: "email", Label: "Email", Type: crud.FieldText, Required: true},
	}
	staffFields = []crud.Field{
		{Name: "fullName", Label: "Full Name", Type: crud.FieldText, Required: true},
		{Name: "netId", Label: "NetID", Type: crud.FieldText, Required: true},
		{Name: "email", Label: "Email", Type: crud.FieldText, Required: true},
		{Name: "role", Label: "Role (SECRETARY or ADMIN)", Type: crud.FieldText, Required: true},
	}
	spendCategoryFields = []crud.Field{
		{Name: "code", Label: "Code", Type: crud.FieldText, Required: true},
		{Name: "description", Label: "Description", Type: crud.FieldText, Required: true},
		{Name: "visibleToStudents", Label: "Visible to Students", Type: crud.FieldRadio, Required: true},
	}
	professorFields = []crud.Field{
		{Name: "title", Label: "Title", Type: crud.FieldText},
		{Name: "firstName", Label: "First Name", Type: crud.FieldText, Required: true},
		{Name: "lastName", Label: "Last Name", Type: crud.FieldText, Required: true},
		{Name: "email", Label: "Email", Type: crud.FieldText},
	}
)

// Schemas lists every panel in tab order.
func Schemas() []Schema {
	return []Schema{
		{Key: "students", Title: "Students", Noun: "Student", Fields: studentFields},
		{Key: "staff", Title: "Staff", Noun: "Staff Member", Fields: staffFields},
		{Key: "spend-categories", Title: "Spend Categories", Noun: "Spend Category", Fields: spendCategoryFields},
		{Key: "professors", Title: "Professors", Noun: "Professor", Fields: professorFields},
	}
}

// Backend is the subset of the API client the panels call.
type Backend interface {
	AllUsers(ctx context.Context, role models.UserRole) ([]models.User, error)
	CreateUser(ctx context.Context, fields map[string]interface{}) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListSpendCategories(ctx context.Context) ([]models.SpendCategory, error)
	CreateSpendCategory(ctx context.Context, fields map[string]interface{}) error
	UpdateSpendCategory(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteSpendCategory(ctx context.Context, id string) error

	ListProfessors(ctx context.Context) ([]models.Professor, error)
	CreateProfessor(ctx context.Context, fields map[string]interface{}) error
	UpdateProfessor(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteProfessor(ctx context.Context, id string) error
}

// NewStudentPanel manages users with the STUDENT role.
func NewStudentPanel(b Backend, n crud.Notifier) (*crud.Panel[models.User], error) {
	return crud.NewPanel(crud.Config[models.User]{
		Noun:     "Student",
		Fields:   studentFields,
		API:      studentAPI{b},
		ID:       userID,
		Notifier: n,
	})
}

// NewStaffPanel manages secretaries and admins. Admin rows are read-only.
func NewStaffPanel(b Backend, n crud.Notifier) (*crud.Panel[models.User], error) {
	return crud.NewPanel(crud.Config[models.User]{
		Noun:      "Staff Member",
		Fields:    staffFields,
		API:       staffAPI{b},
		ID:        userID,
		CanEdit:   notAdmin,
		CanDelete: notAdmin,
		Notifier:  n,
	})
}

// NewSpendCategoryPanel manages spend categories.
func NewSpendCategoryPanel(b Backend, n crud.Notifier) (*crud.Panel[models.SpendCategory], error) {
	return crud.NewPanel(crud.Config[models.SpendCategory]{
		Noun:     "Spend Category",
		Fields:   spendCategoryFields,
		API:      spendCategoryAPI{b},
		ID:       func(c models.SpendCategory) string { return c.ID },
		Notifier: n,
	})
}

// NewProfessorPanel manages professors.
func NewProfessorPanel(b Backend, n crud.Notifier) (*crud.Panel[models.Professor], error) {
	return crud.NewPanel(crud.Config[models.Professor]{
		Noun:     "Professor",
		Fields:   professorFields,
		API:      professorAPI{b},
		ID:       func(p models.Professor) string { return p.ID },
		Notifier: n,
	})
}

func userID(u models.User) string { return u.ID }

func notAdmin(u models.User) bool { return u.Role != models.RoleAdmin }
