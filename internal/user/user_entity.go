package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email          string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_user_email"`
	HashedPassword string    `gorm:"column:hashed_password;type:text;not null"`
	FirstName      string    `gorm:"column:first_name;type:varchar(100)"`
	LastName       string    `gorm:"column:last_name;type:varchar(100)"`
	Role           string    `gorm:"column:role;type:varchar(30);not null;default:'ROLE_EMPLOYEE'"`

	// Self-reference to the reporting manager. Employees must have one,
	// enforced at the service layer.
	ManagerID *uuid.UUID `gorm:"column:manager_id;type:uuid;index"`
	Manager   *User      `gorm:"foreignKey:ManagerID;references:ID"`

	IsActive   bool       `gorm:"column:is_active;default:true"`
	HireDate   *time.Time `gorm:"column:hire_date;type:date"`
	Department string     `gorm:"column:department;type:varchar(100)"`
	JobTitle   string     `gorm:"column:job_title;type:varchar(100)"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
