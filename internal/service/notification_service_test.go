package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/pkg/jobs"
)

type fakeNotificationRepo struct {
	mu       sync.Mutex
	pkg      *models.Package
	findErr  error
	notified []string
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, id string) (*models.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.pkg == nil || f.pkg.ID != id {
		return nil, sql.ErrNoRows
	}
	clone := *f.pkg
	return &clone, nil
}

func (f *fakeNotificationRepo) MarkNotified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, id)
	f.pkg.NotificationSent = true
	return nil
}

func (f *fakeNotificationRepo) notifiedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.notified...)
}

type fakeArrivalSender struct {
	mu   sync.Mutex
	to   []string
	fail int
}

func (f *fakeArrivalSender) SendArrival(_ context.Context, student models.User, _ models.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		return errors.New("smtp unavailable")
	}
	f.to = append(f.to, student.Email)
	return nil
}

func arrivedPackage() *models.Package {
	shelf := "Shelf A3"
	return &models.Package{
		ID:        "pkg-1",
		StudentID: "S1",
		Status:    models.PackageStatusArrived,
		Location:  &shelf,
		Student:   &models.User{ID: "S1", Email: "s1@campus.edu", FullName: "Sam One"},
	}
}

func notificationJob(pkgID string) jobs.Job[models.PackageNotification] {
	return jobs.Job[models.PackageNotification]{ID: pkgID, Payload: models.PackageNotification{PackageID: pkgID, StudentID: "S1"}}
}

func TestNotificationHandleSendsAndMarks(t *testing.T) {
	repo := &fakeNotificationRepo{pkg: arrivedPackage()}
	sender := &fakeArrivalSender{}
	metrics := NewMetricsService()
	svc := NewNotificationService(repo, sender, metrics, zap.NewNop(), NotificationConfig{Enabled: true})

	require.NoError(t, svc.Handle(context.Background(), notificationJob("pkg-1")))
	assert.Equal(t, []string{"s1@campus.edu"}, sender.to)
	assert.Equal(t, []string{"pkg-1"}, repo.notifiedIDs())

	// a second check-in must not message the student again
	require.NoError(t, svc.Handle(context.Background(), notificationJob("pkg-1")))
	assert.Len(t, sender.to, 1)
}

func TestNotificationHandleSkipsPackageWithoutStudent(t *testing.T) {
	pkg := arrivedPackage()
	pkg.Student = nil
	repo := &fakeNotificationRepo{pkg: pkg}
	sender := &fakeArrivalSender{}
	svc := NewNotificationService(repo, sender, nil, zap.NewNop(), NotificationConfig{Enabled: true})

	require.NoError(t, svc.Handle(context.Background(), notificationJob("pkg-1")))
	assert.Empty(t, sender.to)
	assert.Empty(t, repo.notifiedIDs())
}

func TestNotificationHandleSurfacesFailures(t *testing.T) {
	repo := &fakeNotificationRepo{findErr: errors.New("db down")}
	svc := NewNotificationService(repo, &fakeArrivalSender{}, nil, zap.NewNop(), NotificationConfig{Enabled: true})
	assert.Error(t, svc.Handle(context.Background(), notificationJob("pkg-1")))

	repo = &fakeNotificationRepo{pkg: arrivedPackage()}
	svc = NewNotificationService(repo, &fakeArrivalSender{fail: 1}, nil, zap.NewNop(), NotificationConfig{Enabled: true})
	assert.Error(t, svc.Handle(context.Background(), notificationJob("pkg-1")))
	assert.Empty(t, repo.notifiedIDs())
}

func TestNotificationQueueDeliversAsynchronously(t *testing.T) {
	repo := &fakeNotificationRepo{pkg: arrivedPackage()}
	sender := &fakeArrivalSender{}
	svc := NewNotificationService(repo, sender, nil, zap.NewNop(), NotificationConfig{Enabled: true, Workers: 2})

	svc.Start(context.Background())
	defer svc.Stop()

	require.NoError(t, svc.NotifyArrival(models.PackageNotification{PackageID: "pkg-1", StudentID: "S1"}))
	assert.Eventually(t, func() bool {
		return len(repo.notifiedIDs()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationDisabledIsNoop(t *testing.T) {
	repo := &fakeNotificationRepo{pkg: arrivedPackage()}
	svc := NewNotificationService(repo, &fakeArrivalSender{}, nil, zap.NewNop(), NotificationConfig{})
	svc.Start(context.Background())
	assert.NoError(t, svc.NotifyArrival(models.PackageNotification{PackageID: "pkg-1"}))
	svc.Stop()
	assert.Empty(t, repo.notifiedIDs())

	var nilSvc *NotificationService
	assert.NoError(t, nilSvc.NotifyArrival(models.PackageNotification{PackageID: "pkg-1"}))
}
