package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
	"github.com/campus-mailroom/mailroom-api/pkg/export"
)

type packageRepository interface {
	List(ctx context.Context, filter models.PackageFilter) ([]models.Package, int, error)
	FindByID(ctx context.Context, id string) (*models.Package, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Package, error)
	Create(ctx context.Context, pkg *models.Package) error
	Update(ctx context.Context, id string, set query.Assignments) error
	CheckIn(ctx context.Context, id, employeeID string, location *string, at time.Time) error
	CheckOut(ctx context.Context, id, employeeID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) ([]models.PackageStatusCount, error)
}

type arrivalNotifier interface {
	NotifyArrival(n models.PackageNotification) error
}

// PackageConfig tunes package tracking behaviour.
type PackageConfig struct {
	// StrictCheckout rejects check-out unless the package is on the shelf.
	StrictCheckout bool
	ExportMaxRows  int
}

// PackageService implements the mailroom package lifecycle.
type PackageService struct {
	repo      packageRepository
	validator *validator.Validate
	cache     *PackageCache
	metrics   *MetricsService
	notifier  arrivalNotifier
	logger    *zap.Logger
	config    PackageConfig
	csv       csvRenderer
	pdf       pdfRenderer
	now       func() time.Time
}

// NewPackageService constructs a PackageService. cache, metrics and notifier
// may be nil.
func NewPackageService(repo packageRepository, validate *validator.Validate, cache *PackageCache, metrics *MetricsService, notifier arrivalNotifier, logger *zap.Logger, config PackageConfig) *PackageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ExportMaxRows <= 0 {
		config.ExportMaxRows = 1000
	}
	return &PackageService{
		repo:      repo,
		validator: validate,
		cache:     cache,
		metrics:   metrics,
		notifier:  notifier,
		logger:    logger,
		config:    config,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		now:       time.Now,
	}
}

// List returns one page of packages and the envelope metadata.
func (s *PackageService) List(ctx context.Context, filter models.PackageFilter) (query.Page[models.Package], error) {
	start := time.Now()
	packages, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("packages.list", time.Since(start))
	if err != nil {
		s.logger.Error("list packages failed", zap.Error(err))
		return query.Page[models.Package]{}, appErrors.Internal(err, "Failed to fetch packages")
	}
	return query.NewPage(packages, total, filter.Params), nil
}

// Get returns a package with its related users.
func (s *PackageService) Get(ctx context.Context, id string) (*models.Package, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Package", "Failed to fetch package")
	}
	return pkg, nil
}

// Create registers a package awaiting arrival.
func (s *PackageService) Create(ctx context.Context, req dto.CreatePackageRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid package payload")
	}
	pkg := &models.Package{
		TrackingNumber:      req.TrackingNumber,
		Carrier:             req.Carrier,
		Sender:              req.Sender,
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		StudentID:           req.StudentID,
		Notes:               req.Notes,
		Location:            req.Location,
		Status:              models.PackageStatusAwaitingArrival,
	}
	if err := s.repo.Create(ctx, pkg); err != nil {
		s.logger.Error("create package failed", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, storeError(err, "Package", "Failed to create package")
	}
	s.afterWrite(ctx, "created")
	return s.reload(ctx, pkg.ID, "Failed to create package")
}

// Update applies the fields present in req; explicit nulls clear nullable
// columns. An empty payload returns the record unchanged.
func (s *PackageService) Update(ctx context.Context, id string, req dto.UpdatePackageRequest) (*models.Package, error) {
	set, err := s.packageAssignments(req)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, set); err != nil {
		return nil, storeError(err, "Package", "Failed to update package")
	}
	s.afterWrite(ctx, "updated")
	return s.reload(ctx, id, "Failed to update package")
}

func (s *PackageService) packageAssignments(req dto.UpdatePackageRequest) (query.Assignments, error) {
	var set query.Assignments
	invalid := func(field string, err error) (query.Assignments, error) {
		return query.Assignments{}, appErrors.Validation(err, fmt.Sprintf("invalid %s", field))
	}

	nullableText := []struct {
		column string
		field  string
		value  dto.Optional[string]
		rule   string
	}{
		{"tracking_number", "trackingNumber", req.TrackingNumber, "max=120"},
		{"carrier", "carrier", req.Carrier, "max=80"},
		{"sender", "sender", req.Sender, "max=200"},
		{"location", "location", req.Location, "max=120"},
		{"notes", "notes", req.Notes, ""},
		{"checked_in_by_id", "checkedInById", req.CheckedInByID, "required"},
		{"checked_out_by_id", "checkedOutById", req.CheckedOutByID, "required"},
	}
	for _, f := range nullableText {
		if !f.value.IsSet() {
			continue
		}
		if v, ok := f.value.Value(); ok && f.rule != "" {
			if err := s.validator.Var(v, f.rule); err != nil {
				return invalid(f.field, err)
			}
		}
		set.Add(f.column, f.value.Ptr())
	}

	nullableTimes := []struct {
		column string
		value  dto.Optional[time.Time]
	}{
		{"expected_arrival_date", req.ExpectedArrivalDate},
		{"date_arrived", req.DateArrived},
		{"date_picked_up", req.DatePickedUp},
	}
	for _, f := range nullableTimes {
		if f.value.IsSet() {
			set.Add(f.column, f.value.Ptr())
		}
	}

	if req.Status.IsSet() {
		status, ok := req.Status.Value()
		if !ok || !status.Valid() {
			return invalid("status", fmt.Errorf("unknown package status %q", status))
		}
		set.Add("status", string(status))
	}
	if req.StudentID.IsSet() {
		studentID, ok := req.StudentID.Value()
		if !ok || studentID == "" {
			return invalid("studentId", fmt.Errorf("studentId cannot be cleared"))
		}
		set.Add("student_id", studentID)
	}
	if req.NotificationSent.IsSet() {
		sent, ok := req.NotificationSent.Value()
		if !ok {
			return invalid("notificationSent", fmt.Errorf("notificationSent cannot be null"))
		}
		set.Add("notification_sent", sent)
	}
	return set, nil
}

// CheckIn records arrival: status ARRIVED, arrival time now, the receiving
// employee and, when given, the shelf location. The student is notified
// asynchronously.
func (s *PackageService) CheckIn(ctx context.Context, id string, req dto.CheckInRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "employeeId is required")
	}
	if err := s.repo.CheckIn(ctx, id, req.EmployeeID, req.Location, s.now().UTC()); err != nil {
		s.logger.Error("check in failed", zap.String("package_id", id), zap.Error(err))
		return nil, storeError(err, "Package", "Failed to check in package")
	}
	s.afterWrite(ctx, "checked_in")

	pkg, err := s.reload(ctx, id, "Failed to check in package")
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyArrival(models.PackageNotification{PackageID: pkg.ID, StudentID: pkg.StudentID, Location: pkg.Location}); err != nil {
			s.logger.Warn("arrival notification not queued", zap.String("package_id", pkg.ID), zap.Error(err))
		}
	}
	return pkg, nil
}

// CheckOut records release to the recipient. Unless StrictCheckout is set,
// packages that were never checked in may be checked out.
func (s *PackageService) CheckOut(ctx context.Context, id string, req dto.CheckOutRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "employeeId is required")
	}
	if s.config.StrictCheckout {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, storeError(err, "Package", "Failed to check out package")
		}
		if !current.Status.AwaitingPickup() {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("Package is %s and cannot be checked out", current.Status))
		}
	}
	if err := s.repo.CheckOut(ctx, id, req.EmployeeID, s.now().UTC()); err != nil {
		s.logger.Error("check out failed", zap.String("package_id", id), zap.Error(err))
		return nil, storeError(err, "Package", "Failed to check out package")
	}
	s.afterWrite(ctx, "checked_out")
	return s.reload(ctx, id, "Failed to check out package")
}

// Delete removes a package.
func (s *PackageService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Package", "Failed to delete package")
	}
	s.afterWrite(ctx, "deleted")
	return nil
}

// ListForStudent returns every package addressed to a student.
func (s *PackageService) ListForStudent(ctx context.Context, studentID string) ([]models.Package, error) {
	packages, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch packages")
	}
	if packages == nil {
		packages = []models.Package{}
	}
	return packages, nil
}

// Summary counts packages per status, served from cache when possible.
func (s *PackageService) Summary(ctx context.Context) (*models.PackageSummary, error) {
	if cached, hit := s.cache.Summary(ctx); hit {
		return cached, nil
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to summarise packages")
	}
	summary := &models.PackageSummary{
		ByStatus:    make(map[models.PackageStatus]int, len(models.PackageStatuses)),
		GeneratedAt: s.now().UTC(),
	}
	for _, status := range models.PackageStatuses {
		summary.ByStatus[status] = 0
	}
	for _, c := range counts {
		summary.ByStatus[c.Status] += c.Count
		summary.Total += c.Count
		summary.NotifyPending += c.Unnotified
		if c.Status.AwaitingPickup() {
			summary.OnShelf += c.Count
		}
	}
	s.cache.StoreSummary(ctx, summary)
	return summary, nil
}

func (s *PackageService) reload(ctx context.Context, id, failed string) (*models.Package, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Package", failed)
	}
	return pkg, nil
}

func (s *PackageService) afterWrite(ctx context.Context, event string) {
	s.metrics.RecordPackageEvent(event)
	s.cache.Invalidate(ctx)
}
