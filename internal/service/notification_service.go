package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/pkg/jobs"
)

type notificationPackageRepository interface {
	FindByID(ctx context.Context, id string) (*models.Package, error)
	MarkNotified(ctx context.Context, id string) error
}

// ArrivalSender delivers an "your package arrived" message to a student.
type ArrivalSender interface {
	SendArrival(ctx context.Context, student models.User, pkg models.Package) error
}

// LogArrivalSender writes arrival messages to the service log. It stands in
// for a mail gateway.
type LogArrivalSender struct {
	Logger *zap.Logger
}

// SendArrival implements ArrivalSender.
func (s LogArrivalSender) SendArrival(_ context.Context, student models.User, pkg models.Package) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	location := ""
	if pkg.Location != nil {
		location = *pkg.Location
	}
	logger.Info("arrival notification",
		zap.String("package_id", pkg.ID),
		zap.String("to", student.Email),
		zap.String("student", student.FullName),
		zap.String("location", location),
	)
	return nil
}

// NotificationConfig tunes the notification worker pool.
type NotificationConfig struct {
	Enabled bool
	Workers int
	Retries int
}

// NotificationService tells students their package arrived, asynchronously,
// and flags the package once the message went out.
type NotificationService struct {
	packages notificationPackageRepository
	sender   ArrivalSender
	metrics  *MetricsService
	logger   *zap.Logger
	queue    *jobs.Queue[models.PackageNotification]
	enabled  bool
}

// NewNotificationService wires the service and its queue. Start must be
// called before notifications are delivered.
func NewNotificationService(packages notificationPackageRepository, sender ArrivalSender, metrics *MetricsService, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = LogArrivalSender{Logger: logger}
	}
	s := &NotificationService{packages: packages, sender: sender, metrics: metrics, logger: logger, enabled: cfg.Enabled}
	s.queue = jobs.NewQueue("arrival-notifications", s.Handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool.
func (s *NotificationService) Start(ctx context.Context) {
	if s == nil || !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains workers.
func (s *NotificationService) Stop() {
	if s == nil || !s.enabled {
		return
	}
	s.queue.Stop()
}

// NotifyArrival schedules a notification; it never blocks the caller.
func (s *NotificationService) NotifyArrival(n models.PackageNotification) error {
	if s == nil || !s.enabled {
		return nil
	}
	return s.queue.Enqueue(jobs.Job[models.PackageNotification]{ID: n.PackageID, Payload: n})
}

// Handle delivers one notification. Already-notified packages are skipped so
// retries and repeated check-ins do not spam the student.
func (s *NotificationService) Handle(ctx context.Context, job jobs.Job[models.PackageNotification]) error {
	pkg, err := s.packages.FindByID(ctx, job.Payload.PackageID)
	if err != nil {
		s.metrics.RecordNotification("failed")
		return fmt.Errorf("load package %s: %w", job.Payload.PackageID, err)
	}
	if pkg.NotificationSent {
		s.metrics.RecordNotification("skipped")
		return nil
	}
	if pkg.Student == nil {
		s.metrics.RecordNotification("skipped")
		s.logger.Warn("package has no student to notify", zap.String("package_id", pkg.ID))
		return nil
	}
	if err := s.sender.SendArrival(ctx, *pkg.Student, *pkg); err != nil {
		s.metrics.RecordNotification("failed")
		return fmt.Errorf("send arrival notification: %w", err)
	}
	if err := s.packages.MarkNotified(ctx, pkg.ID); err != nil {
		s.metrics.RecordNotification("failed")
		return fmt.Errorf("mark package notified: %w", err)
	}
	s.metrics.RecordNotification("sent")
	return nil
}
