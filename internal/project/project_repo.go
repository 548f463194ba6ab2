package project

import (
	"context"
	"database/sql"

	"go-ems/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=project_repo.go -destination=mock/project_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Project) error
	FindAll(ctx context.Context) ([]Project, error)
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByClient(ctx context.Context, clientID string) ([]Project, error)
	FindAllActive(ctx context.Context) ([]Project, error)
	FindActiveAssignedToUser(ctx context.Context, userID string) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
	FindAssignments(ctx context.Context, projectID string) ([]ProjectAssignment, error)
	CreateAssignment(ctx context.Context, a *ProjectAssignment) error
	DeleteAssignment(ctx context.Context, id string) error
	UserExists(ctx context.Context, userID string) (bool, error)
	ClientExists(ctx context.Context, clientID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Assignments").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByClient(ctx context.Context, clientID string) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("status = ?", StatusActive).
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) FindActiveAssignedToUser(ctx context.Context, userID string) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Joins("JOIN project_assignments pa ON pa.project_id = projects.id").
		Where("pa.user_id = ?", userID).
		Where("projects.status = ?", StatusActive).
		Order("projects.name ASC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) Update(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Project{}, "id = ?", id).Error
}

func (r *repository) FindAssignments(ctx context.Context, projectID string) ([]ProjectAssignment, error) {
	var assignments []ProjectAssignment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) CreateAssignment(ctx context.Context, a *ProjectAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) DeleteAssignment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ProjectAssignment{}, "id = ?", id).Error
}

func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ClientExists(ctx context.Context, clientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("clients").
		Where("id = ?", clientID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
