package client

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=client_repo.go -destination=mock/client_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, cl *Client) error
	FindAll(ctx context.Context) ([]Client, error)
	FindByID(ctx context.Context, id string) (*Client, error)
	SearchByName(ctx context.Context, name string) ([]Client, error)
	Update(ctx context.Context, cl *Client) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cl *Client) error {
	return r.db.WithContext(ctx).Create(cl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Client, error) {
	var clients []Client
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&clients).Error
	return clients, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Client, error) {
	var cl Client
	err := r.db.WithContext(ctx).First(&cl, "id = ?", id).Error
	return &cl, err
}

func (r *repository) SearchByName(ctx context.Context, name string) ([]Client, error) {
	var clients []Client
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+name+"%").
		Order("name ASC").
		Find(&clients).Error
	return clients, err
}

func (r *repository) Update(ctx context.Context, cl *Client) error {
	return r.db.WithContext(ctx).Save(cl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Client{}, "id = ?", id).Error
}
