package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
)

const (
	packageColumns = `p.id, p.tracking_number, p.carrier, p.sender, p.location, p.notes, p.status, p.expected_arrival_date,
        p.date_arrived, p.date_picked_up, p.student_id, p.checked_in_by_id, p.checked_out_by_id, p.notification_sent, p.created_at, p.updated_at`
	packageFrom = `FROM packages p
        LEFT JOIN users s ON s.id = p.student_id
        LEFT JOIN users ci ON ci.id = p.checked_in_by_id
        LEFT JOIN users co ON co.id = p.checked_out_by_id`

	// SortPriority orders shelved packages first, newest first within each group.
	SortPriority = "priority"
)

var packageSelect = fmt.Sprintf("SELECT %s,\n        %s,\n        %s,\n        %s\n        %s",
	packageColumns,
	joinedUserColumns("s", "student"),
	joinedUserColumns("ci", "checked_in_by"),
	joinedUserColumns("co", "checked_out_by"),
	packageFrom,
)

var packageSortable = query.Sortable{
	"createdAt":           "p.created_at",
	"updatedAt":           "p.updated_at",
	"status":              "p.status",
	"trackingNumber":      "p.tracking_number",
	"carrier":             "p.carrier",
	"sender":              "p.sender",
	"dateArrived":         "p.date_arrived",
	"datePickedUp":        "p.date_picked_up",
	"expectedArrivalDate": "p.expected_arrival_date",
}

type packageRow struct {
	models.Package
	Student      joinedUser `db:"student"`
	CheckedInBy  joinedUser `db:"checked_in_by"`
	CheckedOutBy joinedUser `db:"checked_out_by"`
}

func (r packageRow) toModel() models.Package {
	pkg := r.Package
	pkg.Student = r.Student.toModel()
	pkg.CheckedInBy = r.CheckedInBy.toModel()
	pkg.CheckedOutBy = r.CheckedOutBy.toModel()
	return pkg
}

// PackageRepository persists mailroom packages.
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository constructs a PackageRepository.
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func packageWhere(filter models.PackageFilter) query.Where {
	var where query.Where
	if filter.Status != "" {
		where.Eq("p.status", string(filter.Status))
	}
	if filter.StudentID != "" {
		where.Eq("p.student_id", filter.StudentID)
	}
	where.ContainsAny(filter.Search, "p.tracking_number", "p.carrier", "p.sender", "s.full_name", "s.net_id")
	where.Between("p.date_arrived", filter.StartDate, filter.EndDate)
	return where
}

func packageOrderBy(p query.Params) string {
	if p.SortBy() == SortPriority {
		return fmt.Sprintf("CASE WHEN p.status IN ('%s', '%s') THEN 0 ELSE 1 END ASC, p.created_at DESC, p.id DESC",
			models.PackageStatusArrived, models.PackageStatusReadyForPickup)
	}
	return packageSortable.OrderBy(p, "createdAt", query.OrderDesc, "p.id")
}

// List returns one page of packages with their related users, plus the total
// matching the same predicates.
func (r *PackageRepository) List(ctx context.Context, filter models.PackageFilter) ([]models.Package, int, error) {
	where := packageWhere(filter)
	args := where.Args()

	listQuery := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d",
		packageSelect, where.SQL(), packageOrderBy(filter.Params), filter.Limit(), filter.Offset())

	var rows []packageRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list packages: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", packageFrom, where.SQL())
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count packages: %w", err)
	}

	packages := make([]models.Package, len(rows))
	for i, row := range rows {
		packages[i] = row.toModel()
	}
	return packages, total, nil
}

// FindByID fetches a package with its related users.
func (r *PackageRepository) FindByID(ctx context.Context, id string) (*models.Package, error) {
	var row packageRow
	if err := r.db.GetContext(ctx, &row, packageSelect+" WHERE p.id = $1", id); err != nil {
		return nil, err
	}
	pkg := row.toModel()
	return &pkg, nil
}

// ListByStudent returns every package addressed to a student, newest first.
func (r *PackageRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Package, error) {
	const listQuery = `SELECT p.id, p.tracking_number, p.carrier, p.sender, p.location, p.notes, p.status, p.expected_arrival_date,
        p.date_arrived, p.date_picked_up, p.student_id, p.checked_in_by_id, p.checked_out_by_id, p.notification_sent, p.created_at, p.updated_at
        FROM packages p WHERE p.student_id = $1 ORDER BY p.created_at DESC, p.id DESC`
	var packages []models.Package
	if err := r.db.SelectContext(ctx, &packages, listQuery, studentID); err != nil {
		return nil, fmt.Errorf("list student packages: %w", err)
	}
	return packages, nil
}

// Create inserts a package awaiting arrival.
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	if pkg.Status == "" {
		pkg.Status = models.PackageStatusAwaitingArrival
	}
	now := time.Now().UTC()
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = now
	}
	pkg.UpdatedAt = now
	const insertQuery = `INSERT INTO packages (id, tracking_number, carrier, sender, location, notes, status, expected_arrival_date,
        date_arrived, date_picked_up, student_id, checked_in_by_id, checked_out_by_id, notification_sent, created_at, updated_at)
        VALUES (:id, :tracking_number, :carrier, :sender, :location, :notes, :status, :expected_arrival_date,
        :date_arrived, :date_picked_up, :student_id, :checked_in_by_id, :checked_out_by_id, :notification_sent, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insertQuery, pkg); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

// Update applies a partial change set. It returns sql.ErrNoRows when the
// package does not exist.
func (r *PackageRepository) Update(ctx context.Context, id string, set query.Assignments) error {
	set.Add("updated_at", time.Now().UTC())
	updateQuery := fmt.Sprintf("UPDATE packages SET %s WHERE id = $%d", set.SQL(), set.Next())
	args := append(set.Args(), id)
	result, err := r.db.ExecContext(ctx, updateQuery, args...)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	return requireAffected(result, "update package")
}

// CheckIn marks a package ARRIVED. A nil location keeps the stored one.
func (r *PackageRepository) CheckIn(ctx context.Context, id, employeeID string, location *string, at time.Time) error {
	const checkInQuery = `UPDATE packages SET status = $2, date_arrived = $3, checked_in_by_id = $4, location = COALESCE($5, location), updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, checkInQuery, id, string(models.PackageStatusArrived), at, employeeID, location)
	if err != nil {
		return fmt.Errorf("check in package: %w", err)
	}
	return requireAffected(result, "check in package")
}

// CheckOut marks a package PICKED_UP.
func (r *PackageRepository) CheckOut(ctx context.Context, id, employeeID string, at time.Time) error {
	const checkOutQuery = `UPDATE packages SET status = $2, date_picked_up = $3, checked_out_by_id = $4, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, checkOutQuery, id, string(models.PackageStatusPickedUp), at, employeeID)
	if err != nil {
		return fmt.Errorf("check out package: %w", err)
	}
	return requireAffected(result, "check out package")
}

// MarkNotified records that the recipient was told about the arrival.
func (r *PackageRepository) MarkNotified(ctx context.Context, id string) error {
	const markQuery = `UPDATE packages SET notification_sent = true, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, markQuery, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark package notified: %w", err)
	}
	return requireAffected(result, "mark package notified")
}

// Delete removes a package.
func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	return requireAffected(result, "delete package")
}

// CountByStatus aggregates packages per status. Unnotified only counts
// shelved packages whose recipient has not been told yet.
func (r *PackageRepository) CountByStatus(ctx context.Context) ([]models.PackageStatusCount, error) {
	const countQuery = `SELECT status, COUNT(*) AS count,
        COUNT(*) FILTER (WHERE notification_sent = false AND status IN ('ARRIVED', 'READY_FOR_PICKUP')) AS unnotified
        FROM packages GROUP BY status`
	var counts []models.PackageStatusCount
	if err := r.db.SelectContext(ctx, &counts, countQuery); err != nil {
		return nil, fmt.Errorf("count packages by status: %w", err)
	}
	return counts, nil
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
