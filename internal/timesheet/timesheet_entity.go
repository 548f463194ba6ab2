package timesheet

import (
	"time"

	"go-ems/internal/project"
	"go-ems/internal/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Timesheet is the aggregate root for one user's week of time entries.
// Entries have no lifecycle of their own: replacing or deleting the
// timesheet replaces or deletes them too.
type Timesheet struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timesheet_user_week"`
	User          *user.User
	WeekStartDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_timesheet_user_week"`

	Status            string     `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_timesheets_status"`
	SubmittedAt       *time.Time
	ApprovedAt        *time.Time
	RejectionComments *string `gorm:"type:text"`

	Entries []TimeEntry `gorm:"foreignKey:TimesheetID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TimeEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TimesheetID uuid.UUID  `gorm:"type:uuid;not null;index:idx_time_entries_timesheet"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index:idx_time_entries_project"`
	Project     *project.Project

	EntryDate time.Time       `gorm:"type:date;not null"`
	Hours     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaskType  string          `gorm:"type:varchar(20);not null"`
	Notes     string          `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
