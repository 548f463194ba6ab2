package project

import (
	"time"

	"go-ems/internal/client"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Project struct {
	ID       uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string         `gorm:"column:name;type:varchar(255);not null"`
	ClientID uuid.UUID      `gorm:"column:client_id;type:uuid;not null;index"`
	Client   *client.Client `gorm:"foreignKey:ClientID;references:ID"`

	// Snapshot source for invoice line items; the rate in force at
	// generation time is copied onto the line item, never re-read.
	DefaultBillableRate decimal.Decimal `gorm:"column:default_billable_rate;type:decimal(12,2);not null"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Assignments []ProjectAssignment `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectAssignment links a user to a project they may book billable
// time against. One row per distinct (user, project).
type ProjectAssignment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_assignment_user_project"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:uq_assignment_user_project"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
