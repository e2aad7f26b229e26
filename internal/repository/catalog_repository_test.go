package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-mailroom/mailroom-api/internal/models"
)

func TestSpendCategoryRepositoryListVisibleOnly(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSpendCategoryRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(spendCategorySelect + " WHERE visible_to_students = $1 ORDER BY code ASC, id ASC")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "description", "visible_to_students", "created_at", "updated_at"}).
			AddRow("sc1", "SC100", "Lab supplies", true, now, now))

	visible := true
	categories, err := repo.List(context.Background(), models.SpendCategoryFilter{VisibleToStudents: &visible})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "SC100", categories[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpendCategoryRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSpendCategoryRepository(db)

	mock.ExpectExec("UPDATE spend_categories SET").
		WithArgs("SC1", "Travel", false, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.SpendCategory{ID: "missing", Code: "SC1", Description: "Travel"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfessorRepository(db)

	mock.ExpectExec("INSERT INTO professors").
		WithArgs(sqlmock.AnyArg(), "Dr.", "Ada", "Lovelace", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM professors WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	professor := &models.Professor{Title: "Dr.", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, repo.Create(context.Background(), professor))
	require.NotEmpty(t, professor.ID)
	require.NoError(t, repo.Delete(context.Background(), professor.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
