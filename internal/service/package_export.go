package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
	"github.com/campus-mailroom/mailroom-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered package export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

var packageExportHeaders = []string{"Tracking #", "Carrier", "Sender", "Student", "NetID", "Status", "Location", "Arrived", "Picked up", "Notified"}

// Export renders every package matching filter (capped at ExportMaxRows) as
// a CSV sheet or a PDF shelf manifest. Pagination in filter is ignored; the
// sort order is kept.
func (s *PackageService) Export(ctx context.Context, filter models.PackageFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	var packages []models.Package
	for page := 1; len(packages) < s.config.ExportMaxRows; page++ {
		filter.Params = filter.Params.WithWindow(page, query.MaxPageSize)
		batch, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Internal(err, "Failed to export packages")
		}
		packages = append(packages, batch...)
		if len(batch) == 0 || page*query.MaxPageSize >= total {
			break
		}
	}
	if len(packages) > s.config.ExportMaxRows {
		packages = packages[:s.config.ExportMaxRows]
	}

	data := export.Dataset{Headers: packageExportHeaders, Rows: make([][]string, len(packages))}
	for i, pkg := range packages {
		data.Rows[i] = packageExportRow(pkg)
	}

	stamp := s.now().UTC().Format("20060102-150405")
	file := &ExportFile{Rows: len(packages)}
	var err error
	switch format {
	case ExportFormatPDF:
		file.Body, err = s.pdf.Render(data, "Mailroom package manifest")
		file.ContentType = "application/pdf"
	default:
		file.Body, err = s.csv.Render(data)
		file.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to render export")
	}
	file.Filename = fmt.Sprintf("packages-%s.%s", stamp, format)
	return file, nil
}

func packageExportRow(pkg models.Package) []string {
	student, netID := "", ""
	if pkg.Student != nil {
		student, netID = pkg.Student.FullName, pkg.Student.NetID
	}
	notified := "no"
	if pkg.NotificationSent {
		notified = "yes"
	}
	return []string{
		deref(pkg.TrackingNumber),
		deref(pkg.Carrier),
		deref(pkg.Sender),
		student,
		netID,
		string(pkg.Status),
		deref(pkg.Location),
		formatTime(pkg.DateArrived),
		formatTime(pkg.DatePickedUp),
		notified,
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
