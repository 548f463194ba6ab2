package timesheet_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-ems/internal/timesheet"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The repo tests run gorm over the same sqlmock connection the
// transaction is opened on. sqlmock verifies call order, so any
// statement escaping the transaction (gorm opening its own) breaks
// the expectations.
func setupTimesheetRepoTest(t *testing.T) (*sql.DB, sqlmock.Sqlmock, timesheet.Repository) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return db, mock, timesheet.NewRepository(gormDB)
}

func TestTimesheetRepository_WithTx(t *testing.T) {
	t.Run("entry replacement runs on the caller's transaction", func(t *testing.T) {
		db, mock, repo := setupTimesheetRepoTest(t)

		tsID := uuid.New()
		entryID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "time_entries"`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectQuery(`INSERT INTO "time_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(entryID.String()))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		entry := timesheet.TimeEntry{
			ID:          entryID,
			TimesheetID: tsID,
			EntryDate:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			Hours:       decimal.NewFromInt(8),
			TaskType:    timesheet.TaskTypeNonBillable,
		}
		err = repo.WithTx(tx).ReplaceEntries(context.Background(), tsID, []timesheet.TimeEntry{entry})
		assert.NoError(t, err)

		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback discards the clear step too", func(t *testing.T) {
		db, mock, repo := setupTimesheetRepoTest(t)

		tsID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "time_entries"`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = repo.WithTx(tx).ReplaceEntries(context.Background(), tsID, nil)
		assert.NoError(t, err)

		assert.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTimesheetService_UpsertRollsBackAsOneUnit(t *testing.T) {
	db, mock, repo := setupTimesheetRepoTest(t)
	svc := timesheet.NewService(db, repo, &fakeOutboxRepository{})

	userID := uuid.New()
	tsID := uuid.New()
	weekStart := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	// A failed entry insert must take the preceding delete down with it:
	// the existing entries survive because the whole unit rolls back.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "timesheets" WHERE user_id = .+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "week_start_date", "status"}).
			AddRow(tsID.String(), userID.String(), weekStart, timesheet.StatusDraft))
	mock.ExpectExec(`DELETE FROM "time_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO "time_entries"`).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err := svc.Upsert(context.Background(), userID.String(), timesheet.UpsertTimesheetRequest{
		WeekStartDate: "2024-01-07",
		Entries: []timesheet.TimeEntryRequest{
			{EntryDate: "2024-01-08", Hours: "8", TaskType: timesheet.TaskTypeNonBillable},
		},
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
