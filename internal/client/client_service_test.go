package client_test

import (
	"context"
	"errors"
	"testing"

	"go-ems/internal/client"
	clienterrors "go-ems/internal/client/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeClientRepository struct {
	createFn       func(ctx context.Context, cl *client.Client) error
	findAllFn      func(ctx context.Context) ([]client.Client, error)
	findByIDFn     func(ctx context.Context, id string) (*client.Client, error)
	searchByNameFn func(ctx context.Context, name string) ([]client.Client, error)
	updateFn       func(ctx context.Context, cl *client.Client) error
	deleteFn       func(ctx context.Context, id string) error
}

func (f *fakeClientRepository) Create(ctx context.Context, cl *client.Client) error {
	if f.createFn != nil {
		return f.createFn(ctx, cl)
	}
	return nil
}
func (f *fakeClientRepository) FindAll(ctx context.Context) ([]client.Client, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakeClientRepository) FindByID(ctx context.Context, id string) (*client.Client, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeClientRepository) SearchByName(ctx context.Context, name string) ([]client.Client, error) {
	if f.searchByNameFn != nil {
		return f.searchByNameFn(ctx, name)
	}
	return nil, nil
}
func (f *fakeClientRepository) Update(ctx context.Context, cl *client.Client) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, cl)
	}
	return nil
}
func (f *fakeClientRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestClientService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeClientRepository{}
		var saved *client.Client
		repo.createFn = func(ctx context.Context, cl *client.Client) error {
			saved = cl
			return nil
		}

		svc := client.NewService(repo)

		resp, err := svc.Create(context.Background(), client.ClientRequest{
			Name:          "Acme Corp",
			ContactPerson: "Jane Doe",
			ContactEmail:  "jane@acme.test",
		})

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, "Acme Corp", resp.Name)
		assert.Equal(t, saved.ID.String(), resp.ID)
	})

	t.Run("negative persist failure", func(t *testing.T) {
		repo := &fakeClientRepository{
			createFn: func(ctx context.Context, cl *client.Client) error {
				return errors.New("db down")
			},
		}

		svc := client.NewService(repo)

		_, err := svc.Create(context.Background(), client.ClientRequest{Name: "Acme Corp"})

		assert.Error(t, err)
	})
}

func TestClientService_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeClientRepository{
			findByIDFn: func(ctx context.Context, gotID string) (*client.Client, error) {
				assert.Equal(t, id.String(), gotID)
				return &client.Client{ID: id, Name: "Acme Corp"}, nil
			},
		}

		svc := client.NewService(repo)

		resp, err := svc.GetByID(context.Background(), id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Acme Corp", resp.Name)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := client.NewService(&fakeClientRepository{})

		_, err := svc.GetByID(context.Background(), "not-a-uuid")

		assert.ErrorIs(t, err, clienterrors.ErrInvalidClientID)
	})

	t.Run("negative unknown id", func(t *testing.T) {
		svc := client.NewService(&fakeClientRepository{})

		_, err := svc.GetByID(context.Background(), uuid.New().String())

		assert.ErrorIs(t, err, clienterrors.ErrClientNotFound)
	})
}

func TestClientService_Update(t *testing.T) {
	t.Run("success overwrites contact fields", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeClientRepository{
			findByIDFn: func(ctx context.Context, gotID string) (*client.Client, error) {
				return &client.Client{ID: id, Name: "Acme Corp", ContactPerson: "Jane Doe"}, nil
			},
		}

		var updated *client.Client
		repo.updateFn = func(ctx context.Context, cl *client.Client) error {
			updated = cl
			return nil
		}

		svc := client.NewService(repo)

		resp, err := svc.Update(context.Background(), id.String(), client.ClientRequest{
			Name:          "Acme Holdings",
			ContactPerson: "John Roe",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Acme Holdings", resp.Name)
		assert.NotNil(t, updated)
		assert.Equal(t, "John Roe", updated.ContactPerson)
	})

	t.Run("negative unknown id", func(t *testing.T) {
		svc := client.NewService(&fakeClientRepository{})

		_, err := svc.Update(context.Background(), uuid.New().String(), client.ClientRequest{Name: "Acme"})

		assert.ErrorIs(t, err, clienterrors.ErrClientNotFound)
	})
}

func TestClientService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeClientRepository{
			findByIDFn: func(ctx context.Context, gotID string) (*client.Client, error) {
				return &client.Client{ID: id}, nil
			},
		}

		deleted := false
		repo.deleteFn = func(ctx context.Context, gotID string) error {
			assert.Equal(t, id.String(), gotID)
			deleted = true
			return nil
		}

		svc := client.NewService(repo)

		err := svc.Delete(context.Background(), id.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("negative unknown id", func(t *testing.T) {
		svc := client.NewService(&fakeClientRepository{})

		err := svc.Delete(context.Background(), uuid.New().String())

		assert.ErrorIs(t, err, clienterrors.ErrClientNotFound)
	})
}
