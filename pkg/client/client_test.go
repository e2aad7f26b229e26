package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
)

func TestClientDecodesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Package not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetPackage(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Package not found", apiErr.Message)
}

func TestClientFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).DeletePackage(context.Background(), "p1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClientLoginStoresToken(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req models.LoginRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "letmein", req.Password)
			_, _ = w.Write([]byte(`{"token":"tok-1","expiresAt":"2026-01-01T00:00:00Z"}`))
		case "/api/professors/pr1":
			authHeader = r.Header.Get("Authorization")
			assert.Equal(t, http.MethodDelete, r.Method)
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/")
	resp, err := c.Login(context.Background(), "letmein")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "tok-1", c.Token())

	require.NoError(t, c.DeleteProfessor(context.Background(), "pr1"))
	assert.Equal(t, "Bearer tok-1", authHeader)
}

func TestClientListPackagesPassesFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/packages", r.URL.Path)
		assert.Equal(t, "ARRIVED", r.URL.Query().Get("status"))
		assert.Equal(t, "ups", r.URL.Query().Get("search"))
		_ = json.NewEncoder(w).Encode(query.Page[models.Package]{
			Data:       []models.Package{{ID: "p1", Status: models.PackageStatusArrived, StudentID: "s1"}},
			Total:      1,
			Page:       1,
			PageSize:   25,
			TotalPages: 1,
		})
	}))
	defer srv.Close()

	page, err := New(srv.URL).ListPackages(context.Background(), url.Values{"status": {"ARRIVED"}, "search": {"ups"}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "p1", page.Data[0].ID)
	assert.Equal(t, 1, page.TotalPages)
}

func TestClientCheckInSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/packages/p1/check-in", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req dto.CheckInRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "e1", req.EmployeeID)
		location := *req.Location
		_ = json.NewEncoder(w).Encode(models.Package{ID: "p1", Status: models.PackageStatusArrived, Location: &location, CheckedInByID: &req.EmployeeID})
	}))
	defer srv.Close()

	shelf := "Shelf A3"
	pkg, err := New(srv.URL).CheckIn(context.Background(), "p1", dto.CheckInRequest{EmployeeID: "e1", Location: &shelf})
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusArrived, pkg.Status)
	assert.Equal(t, "Shelf A3", *pkg.Location)
	assert.Equal(t, "e1", *pkg.CheckedInByID)
}

func TestClientAllUsersWalksPages(t *testing.T) {
	const total = 150
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "STUDENT", r.URL.Query().Get("role"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		var data []models.User
		for i := (page - 1) * size; i < page*size && i < total; i++ {
			data = append(data, models.User{ID: strconv.Itoa(i), Role: models.RoleStudent})
		}
		_ = json.NewEncoder(w).Encode(query.Page[models.User]{
			Data: data, Total: total, Page: page, PageSize: size, TotalPages: query.TotalPages(total, size),
		})
	}))
	defer srv.Close()

	users, err := New(srv.URL).AllUsers(context.Background(), models.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, users, total)
	assert.Equal(t, "149", users[total-1].ID)
}
