package client

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"column:name;type:varchar(255);not null"`
	ContactPerson string    `gorm:"column:contact_person;type:varchar(255)"`
	ContactEmail  string    `gorm:"column:contact_email;type:varchar(255)"`
	Address       string    `gorm:"column:address;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
