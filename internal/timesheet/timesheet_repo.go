package timesheet

import (
	"context"
	"database/sql"
	"time"

	"go-ems/internal/project"
	"go-ems/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Timesheet) error
	FindByID(ctx context.Context, id string) (*Timesheet, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Timesheet, error)
	FindByUserAndWeekForUpdate(ctx context.Context, userID string, weekStart time.Time) (*Timesheet, error)
	FindByUser(ctx context.Context, userID string) ([]Timesheet, error)
	FindSubmittedForManager(ctx context.Context, managerID string) ([]Timesheet, error)
	ReplaceEntries(ctx context.Context, timesheetID uuid.UUID, entries []TimeEntry) error
	Update(ctx context.Context, t *Timesheet) error
	Delete(ctx context.Context, id string) error
	FindProject(ctx context.Context, id string) (*project.Project, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto the caller's transaction; every
// statement issued through the returned value runs on tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).Omit("Entries", "User").Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, created_at ASC")
		}).
		Preload("Entries.Project").
		Preload("User").
		First(&t, "id = ?", id).Error
	return &t, err
}

// FindByIDForUpdate locks the timesheet row so concurrent edits,
// submits and decisions on the same aggregate serialize.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("timesheet_id = ?", t.ID).
		Order("entry_date ASC, created_at ASC").
		Find(&t.Entries).Error
	return &t, err
}

func (r *repository) FindByUserAndWeekForUpdate(ctx context.Context, userID string, weekStart time.Time) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Where("week_start_date = ?", weekStart).
		First(&t).Error
	return &t, err
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]Timesheet, error) {
	var timesheets []Timesheet
	err := r.db.WithContext(ctx).
		Preload("Entries").
		Where("user_id = ?", userID).
		Order("week_start_date DESC").
		Find(&timesheets).Error
	return timesheets, err
}

// FindSubmittedForManager lists SUBMITTED timesheets belonging to a
// manager's active direct reports.
func (r *repository) FindSubmittedForManager(ctx context.Context, managerID string) ([]Timesheet, error) {
	var timesheets []Timesheet
	err := r.db.WithContext(ctx).
		Preload("Entries").
		Preload("User").
		Joins("JOIN users ON users.id = timesheets.user_id").
		Where("users.manager_id = ?", managerID).
		Where("users.deleted_at IS NULL").
		Where("timesheets.status = ?", StatusSubmitted).
		Order("timesheets.week_start_date ASC").
		Find(&timesheets).Error
	return timesheets, err
}

// ReplaceEntries implements the clear-then-add upsert contract: the
// stored entry set is dropped and the incoming one written in full.
func (r *repository) ReplaceEntries(ctx context.Context, timesheetID uuid.UUID, entries []TimeEntry) error {
	if err := r.db.WithContext(ctx).
		Where("timesheet_id = ?", timesheetID).
		Delete(&TimeEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Project").Create(&entries).Error
}

func (r *repository) Update(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Where("timesheet_id = ?", id).
		Delete(&TimeEntry{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&Timesheet{}, "id = ?", id).Error
}

func (r *repository) FindProject(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}
