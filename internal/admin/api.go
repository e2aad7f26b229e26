package admin

import (
	"context"

	"github.com/campus-mailroom/mailroom-api/internal/crud"
	"github.com/campus-mailroom/mailroom-api/internal/models"
)

type studentAPI struct{ b Backend }

func (a studentAPI) List(ctx context.Context) ([]models.User, error) {
	return a.b.AllUsers(ctx, models.RoleStudent)
}

func (a studentAPI) Create(ctx context.Context, values crud.Values) error {
	body := values.Clone()
	body["role"] = string(models.RoleStudent)
	_, err := a.b.CreateUser(ctx, body)
	return err
}

func (a studentAPI) Update(ctx context.Context, id string, values crud.Values) error {
	_, err := a.b.UpdateUser(ctx, id, values)
	return err
}

func (a studentAPI) Remove(ctx context.Context, id string) error {
	return a.b.DeleteUser(ctx, id)
}

type staffAPI struct{ b Backend }

func (a staffAPI) List(ctx context.Context) ([]models.User, error) {
	var staff []models.User
	for _, role := range []models.UserRole{models.RoleSecretary, models.RoleAdmin} {
		users, err := a.b.AllUsers(ctx, role)
		if err != nil {
			return nil, err
		}
		staff = append(staff, users...)
	}
	return staff, nil
}

func (a staffAPI) Create(ctx context.Context, values crud.Values) error {
	_, err := a.b.CreateUser(ctx, values)
	return err
}

func (a staffAPI) Update(ctx context.Context, id string, values crud.Values) error {
	_, err := a.b.UpdateUser(ctx, id, values)
	return err
}

func (a staffAPI) Remove(ctx context.Context, id string) error {
	return a.b.DeleteUser(ctx, id)
}

type spendCategoryAPI struct{ b Backend }

func (a spendCategoryAPI) List(ctx context.Context) ([]models.SpendCategory, error) {
	return a.b.ListSpendCategories(ctx)
}

func (a spendCategoryAPI) Create(ctx context.Context, values crud.Values) error {
	return a.b.CreateSpendCategory(ctx, values)
}

func (a spendCategoryAPI) Update(ctx context.Context, id string, values crud.Values) error {
	return a.b.UpdateSpendCategory(ctx, id, values)
}

func (a spendCategoryAPI) Remove(ctx context.Context, id string) error {
	return a.b.DeleteSpendCategory(ctx, id)
}

type professorAPI struct{ b Backend }

func (a professorAPI) List(ctx context.Context) ([]models.Professor, error) {
	return a.b.ListProfessors(ctx)
}

func (a professorAPI) Create(ctx context.Context, values crud.Values) error {
	return a.b.CreateProfessor(ctx, values)
}

func (a professorAPI) Update(ctx context.Context, id string, values crud.Values) error {
	return a.b.UpdateProfessor(ctx, id, values)
}

func (a professorAPI) Remove(ctx context.Context, id string) error {
	return a.b.DeleteProfessor(ctx, id)
}
