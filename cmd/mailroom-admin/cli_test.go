package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-mailroom/mailroom-api/internal/crud"
	"github.com/campus-mailroom/mailroom-api/internal/models"
)

type professorServer struct {
	mu         sync.Mutex
	professors []models.Professor
	deleted    []string
	created    []map[string]interface{}
}

func (s *professorServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/professors":
		_ = json.NewEncoder(w).Encode(s.professors)
	case r.Method == http.MethodPost && r.URL.Path == "/api/professors":
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.created = append(s.created, body)
		p := models.Professor{ID: "p-new"}
		raw, _ := json.Marshal(body)
		_ = json.Unmarshal(raw, &p)
		s.professors = append(s.professors, p)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/professors/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/professors/")
		s.deleted = append(s.deleted, id)
		_, _ = w.Write([]byte(`{"success":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	}
}

func newTestCLI(srv *httptest.Server, stdin string) (*cli, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &cli{apiURL: srv.URL + "/api", in: strings.NewReader(stdin), out: out, errOut: errOut}, out, errOut
}

func TestCLIListsProfessors(t *testing.T) {
	backend := &professorServer{professors: []models.Professor{{ID: "p1", Title: "Dr.", FirstName: "Ada", LastName: "Lovelace"}}}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	c, out, _ := newTestCLI(srv, "")
	require.NoError(t, c.run(context.Background(), []string{"professors", "list"}))
	assert.Contains(t, out.String(), "FIRST NAME")
	assert.Contains(t, out.String(), "Lovelace")
	assert.Contains(t, out.String(), "edit,delete")
}

func TestCLICreatesProfessor(t *testing.T) {
	backend := &professorServer{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	c, out, errOut := newTestCLI(srv, "")
	require.NoError(t, c.run(context.Background(), []string{"professors", "create", "firstName=Grace", "lastName=Hopper"}))
	require.Len(t, backend.created, 1)
	assert.Equal(t, "Grace", backend.created[0]["firstName"])
	assert.Contains(t, errOut.String(), "Professor created")
	assert.Contains(t, out.String(), "Hopper")
}

func TestCLIDeleteNeedsConfirmation(t *testing.T) {
	backend := &professorServer{professors: []models.Professor{{ID: "p1", FirstName: "Ada", LastName: "Lovelace"}}}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	c, out, _ := newTestCLI(srv, "n\n")
	require.NoError(t, c.run(context.Background(), []string{"professors", "delete", "p1"}))
	assert.Empty(t, backend.deleted)
	assert.Contains(t, out.String(), "cancelled")

	c, _, _ = newTestCLI(srv, "y\n")
	require.NoError(t, c.run(context.Background(), []string{"professors", "delete", "p1"}))
	assert.Equal(t, []string{"p1"}, backend.deleted)
}

func TestCLIUnknownCommand(t *testing.T) {
	c := &cli{}
	assert.ErrorIs(t, c.run(context.Background(), nil), errUsage)
}

func TestParseValue(t *testing.T) {
	v, err := parseValue(crud.FieldRadio, "yes")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = parseValue(crud.FieldNumber, "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = parseValue(crud.FieldCheckbox, "maybe")
	assert.Error(t, err)

	v, err = parseValue(crud.FieldText, "Shelf A3")
	require.NoError(t, err)
	assert.Equal(t, "Shelf A3", v)
}

func TestPanelsCommandPrintsSchemas(t *testing.T) {
	out := &bytes.Buffer{}
	c := &cli{out: out}
	require.NoError(t, c.run(context.Background(), []string{"panels"}))
	assert.Contains(t, out.String(), "spend-categories")
	assert.Contains(t, out.String(), "visibleToStudents")
}
