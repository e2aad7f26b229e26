package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
)

// Login exchanges the shared admin password for a session token and keeps it
// for subsequent calls.
func (c *Client) Login(ctx context.Context, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.LoginRequest{Password: password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// ListPackages returns one page of packages. params takes the list query
// parameters verbatim (page, pageSize, status, search, ...).
func (c *Client) ListPackages(ctx context.Context, params url.Values) (*query.Page[models.Package], error) {
	var out query.Page[models.Package]
	if err := c.do(ctx, http.MethodGet, "/packages", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	var out models.Package
	if err := c.do(ctx, http.MethodGet, "/packages/"+escape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePackage(ctx context.Context, req dto.CreatePackageRequest) (*models.Package, error) {
	var out models.Package
	if err := c.do(ctx, http.MethodPost, "/packages", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePackage sends any subset of mutable fields; a nil map value clears
// the column.
func (c *Client) UpdatePackage(ctx context.Context, id string, fields map[string]interface{}) (*models.Package, error) {
	var out models.Package
	if err := c.do(ctx, http.MethodPut, "/packages/"+escape(id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePackage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/packages/"+escape(id), nil, nil, nil)
}

func (c *Client) CheckIn(ctx context.Context, id string, req dto.CheckInRequest) (*models.Package, error) {
	var out models.Package
	if err := c.do(ctx, http.MethodPost, "/packages/"+escape(id)+"/check-in", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckOut(ctx context.Context, id string, req dto.CheckOutRequest) (*models.Package, error) {
	var out models.Package
	if err := c.do(ctx, http.MethodPost, "/packages/"+escape(id)+"/check-out", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PackageSummary(ctx context.Context) (*models.PackageSummary, error) {
	var out models.PackageSummary
	if err := c.do(ctx, http.MethodGet, "/packages/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context, params url.Values) (*query.Page[models.User], error) {
	var out query.Page[models.User]
	if err := c.do(ctx, http.MethodGet, "/users", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllUsers walks every page of users holding role.
func (c *Client) AllUsers(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var all []models.User
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(query.MaxPageSize))
		if role != "" {
			params.Set("role", string(role))
		}
		result, err := c.ListUsers(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Data...)
		if page >= result.TotalPages {
			return all, nil
		}
	}
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+escape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, fields map[string]interface{}) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/users", nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/users/"+escape(id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+escape(id), nil, nil, nil)
}

func (c *Client) UserOrders(ctx context.Context, id string) (*models.OrderHistory, error) {
	var out models.OrderHistory
	if err := c.do(ctx, http.MethodGet, "/users/"+escape(id)+"/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSpendCategories(ctx context.Context) ([]models.SpendCategory, error) {
	var out []models.SpendCategory
	if err := c.do(ctx, http.MethodGet, "/spend-categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSpendCategory(ctx context.Context, fields map[string]interface{}) error {
	return c.do(ctx, http.MethodPost, "/spend-categories", nil, fields, nil)
}

func (c *Client) UpdateSpendCategory(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.do(ctx, http.MethodPut, "/spend-categories/"+escape(id), nil, fields, nil)
}

func (c *Client) DeleteSpendCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/spend-categories/"+escape(id), nil, nil, nil)
}

func (c *Client) ListProfessors(ctx context.Context) ([]models.Professor, error) {
	var out []models.Professor
	if err := c.do(ctx, http.MethodGet, "/professors", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProfessor(ctx context.Context, fields map[string]interface{}) error {
	return c.do(ctx, http.MethodPost, "/professors", nil, fields, nil)
}

func (c *Client) UpdateProfessor(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.do(ctx, http.MethodPut, "/professors/"+escape(id), nil, fields, nil)
}

func (c *Client) DeleteProfessor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/professors/"+escape(id), nil, nil, nil)
}

func (c *Client) ListOrders(ctx context.Context, params url.Values) (*query.Page[models.Order], error) {
	var out query.Page[models.Order]
	if err := c.do(ctx, http.MethodGet, "/orders", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+escape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+escape(id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+escape(id), nil, nil, nil)
}
