package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	"github.com/campus-mailroom/mailroom-api/internal/service"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

type fakePackageSrv struct {
	listCalled   bool
	lastFilter   models.PackageFilter
	lastCreate   dto.CreatePackageRequest
	lastUpdate   dto.UpdatePackageRequest
	lastCheckIn  dto.CheckInRequest
	lastFormat   string
	page         query.Page[models.Package]
	pkg          *models.Package
	err          error
	exportResult *service.ExportFile
}

func (f *fakePackageSrv) List(_ context.Context, filter models.PackageFilter) (query.Page[models.Package], error) {
	f.listCalled = true
	f.lastFilter = filter
	return f.page, f.err
}

func (f *fakePackageSrv) Get(context.Context, string) (*models.Package, error) { return f.pkg, f.err }

func (f *fakePackageSrv) Create(_ context.Context, req dto.CreatePackageRequest) (*models.Package, error) {
	f.lastCreate = req
	return f.pkg, f.err
}

func (f *fakePackageSrv) Update(_ context.Context, _ string, req dto.UpdatePackageRequest) (*models.Package, error) {
	f.lastUpdate = req
	return f.pkg, f.err
}

func (f *fakePackageSrv) CheckIn(_ context.Context, _ string, req dto.CheckInRequest) (*models.Package, error) {
	f.lastCheckIn = req
	return f.pkg, f.err
}

func (f *fakePackageSrv) CheckOut(context.Context, string, dto.CheckOutRequest) (*models.Package, error) {
	return f.pkg, f.err
}

func (f *fakePackageSrv) Delete(context.Context, string) error { return f.err }

func (f *fakePackageSrv) Summary(context.Context) (*models.PackageSummary, error) {
	return &models.PackageSummary{Total: 3}, f.err
}

func (f *fakePackageSrv) Export(_ context.Context, filter models.PackageFilter, format string) (*service.ExportFile, error) {
	f.lastFilter = filter
	f.lastFormat = format
	return f.exportResult, f.err
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, rec
}

func TestPackageHandlerListParsesFilters(t *testing.T) {
	srv := &fakePackageSrv{page: query.Page[models.Package]{Data: []models.Package{}, Page: 2, PageSize: 10}}
	handler := NewPackageHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/packages?page=2&pageSize=10&status=arrived&search=%20ups%20&startDate=2024-03-01&endDate=2024-03-31", "")
	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.PackageStatusArrived, srv.lastFilter.Status)
	assert.Equal(t, "ups", srv.lastFilter.Search)
	assert.Equal(t, 2, srv.lastFilter.Page())
	assert.Equal(t, 10, srv.lastFilter.PageSize())
	require.NotNil(t, srv.lastFilter.StartDate)
	require.NotNil(t, srv.lastFilter.EndDate)
	assert.Equal(t, 23, srv.lastFilter.EndDate.Hour())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "totalPages")
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestPackageHandlerListRejectsUnknownStatus(t *testing.T) {
	srv := &fakePackageSrv{}
	handler := NewPackageHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/packages?status=shipped", "")
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, srv.listCalled)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestPackageHandlerListRejectsBadDate(t *testing.T) {
	srv := &fakePackageSrv{}
	handler := NewPackageHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/packages?endDate=yesterday", "")
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, srv.listCalled)
}

func TestPackageHandlerCreateReturns201(t *testing.T) {
	srv := &fakePackageSrv{pkg: &models.Package{ID: "p1", StudentID: "s1", Status: models.PackageStatusAwaitingArrival}}
	handler := NewPackageHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/packages", `{"studentId":"s1","carrier":"UPS"}`)
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "s1", srv.lastCreate.StudentID)
	require.NotNil(t, srv.lastCreate.Carrier)
	assert.Equal(t, "UPS", *srv.lastCreate.Carrier)
	assert.Contains(t, rec.Body.String(), `"status":"AWAITING_ARRIVAL"`)
}

func TestPackageHandlerCreateRejectsMalformedBody(t *testing.T) {
	handler := NewPackageHandler(&fakePackageSrv{})

	c, rec := newTestContext(http.MethodPost, "/packages", `{"studentId":`)
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPackageHandlerUpdateDistinguishesNull(t *testing.T) {
	srv := &fakePackageSrv{pkg: &models.Package{ID: "p1"}}
	handler := NewPackageHandler(srv)

	c, rec := newTestContext(http.MethodPut, "/packages/p1", `{"location":null,"carrier":"FedEx"}`)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	handler.Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.lastUpdate.Location.IsNull())
	carrier, ok := srv.lastUpdate.Carrier.Value()
	assert.True(t, ok)
	assert.Equal(t, "FedEx", carrier)
	assert.False(t, srv.lastUpdate.Notes.IsSet())
}

func TestPackageHandlerDeleteReturnsSuccess(t *testing.T) {
	handler := NewPackageHandler(&fakePackageSrv{})

	c, rec := newTestContext(http.MethodDelete, "/packages/p1", "")
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestPackageHandlerNotFound(t *testing.T) {
	handler := NewPackageHandler(&fakePackageSrv{err: appErrors.Clone(appErrors.ErrNotFound, "Package not found")})

	c, rec := newTestContext(http.MethodGet, "/packages/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Package not found"}`, rec.Body.String())
}

func TestPackageHandlerCheckInForwardsLocation(t *testing.T) {
	now := time.Now()
	srv := &fakePackageSrv{pkg: &models.Package{ID: "p1", Status: models.PackageStatusArrived, DateArrived: &now}}
	handler := NewPackageHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/packages/p1/check-in", `{"employeeId":"e1","location":"Shelf A3"}`)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	handler.CheckIn(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "e1", srv.lastCheckIn.EmployeeID)
	require.NotNil(t, srv.lastCheckIn.Location)
	assert.Equal(t, "Shelf A3", *srv.lastCheckIn.Location)
}

func TestPackageHandlerCheckOutConflict(t *testing.T) {
	handler := NewPackageHandler(&fakePackageSrv{err: appErrors.Clone(appErrors.ErrConflict, "Package has not been checked in")})

	c, rec := newTestContext(http.MethodPost, "/packages/p1/check-out", `{"employeeId":"e2"}`)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	handler.CheckOut(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPackageHandlerExportSetsHeaders(t *testing.T) {
	srv := &fakePackageSrv{exportResult: &service.ExportFile{Filename: "packages.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("ID\n")}}
	handler := NewPackageHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/packages/export?format=csv&status=PICKED_UP", "")
	handler.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, models.PackageStatusPickedUp, srv.lastFilter.Status)
	assert.Equal(t, `attachment; filename="packages.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ID\n", rec.Body.String())
}
