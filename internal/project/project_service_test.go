package project_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-ems/internal/project"
	projecterrors "go-ems/internal/project/errors"
	"go-ems/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeProjectRepository struct {
	withTxFn                   func(tx *sql.Tx) project.Repository
	createFn                   func(ctx context.Context, p *project.Project) error
	findAllFn                  func(ctx context.Context) ([]project.Project, error)
	findByIDFn                 func(ctx context.Context, id string) (*project.Project, error)
	findByClientFn             func(ctx context.Context, clientID string) ([]project.Project, error)
	findAllActiveFn            func(ctx context.Context) ([]project.Project, error)
	findActiveAssignedToUserFn func(ctx context.Context, userID string) ([]project.Project, error)
	updateFn                   func(ctx context.Context, p *project.Project) error
	deleteFn                   func(ctx context.Context, id string) error
	findAssignmentsFn          func(ctx context.Context, projectID string) ([]project.ProjectAssignment, error)
	createAssignmentFn         func(ctx context.Context, a *project.ProjectAssignment) error
	deleteAssignmentFn         func(ctx context.Context, id string) error
	userExistsFn               func(ctx context.Context, userID string) (bool, error)
	clientExistsFn             func(ctx context.Context, clientID string) (bool, error)
}

func (f *fakeProjectRepository) WithTx(tx *sql.Tx) project.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeProjectRepository) Create(ctx context.Context, p *project.Project) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}
func (f *fakeProjectRepository) FindAll(ctx context.Context) ([]project.Project, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakeProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeProjectRepository) FindByClient(ctx context.Context, clientID string) ([]project.Project, error) {
	if f.findByClientFn != nil {
		return f.findByClientFn(ctx, clientID)
	}
	return nil, nil
}
func (f *fakeProjectRepository) FindAllActive(ctx context.Context) ([]project.Project, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}
func (f *fakeProjectRepository) FindActiveAssignedToUser(ctx context.Context, userID string) ([]project.Project, error) {
	if f.findActiveAssignedToUserFn != nil {
		return f.findActiveAssignedToUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeProjectRepository) Update(ctx context.Context, p *project.Project) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}
func (f *fakeProjectRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeProjectRepository) FindAssignments(ctx context.Context, projectID string) ([]project.ProjectAssignment, error) {
	if f.findAssignmentsFn != nil {
		return f.findAssignmentsFn(ctx, projectID)
	}
	return nil, nil
}
func (f *fakeProjectRepository) CreateAssignment(ctx context.Context, a *project.ProjectAssignment) error {
	if f.createAssignmentFn != nil {
		return f.createAssignmentFn(ctx, a)
	}
	return nil
}
func (f *fakeProjectRepository) DeleteAssignment(ctx context.Context, id string) error {
	if f.deleteAssignmentFn != nil {
		return f.deleteAssignmentFn(ctx, id)
	}
	return nil
}
func (f *fakeProjectRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	if f.userExistsFn != nil {
		return f.userExistsFn(ctx, userID)
	}
	return true, nil
}
func (f *fakeProjectRepository) ClientExists(ctx context.Context, clientID string) (bool, error) {
	if f.clientExistsFn != nil {
		return f.clientExistsFn(ctx, clientID)
	}
	return true, nil
}

type projectServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   project.Service
	repo      *fakeProjectRepository
	redisMock redismock.ClientMock
}

func setupProjectServiceTest(t *testing.T) *projectServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeProjectRepository{}
	svc := project.NewService(db, repo, rdb)

	return &projectServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redisMock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func mustDecimal(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	assert.NoError(t, err)
	return d
}

func activeProject(name string) project.Project {
	return project.Project{
		ID:       uuid.New(),
		Name:     name,
		ClientID: uuid.New(),
		Status:   project.StatusActive,
	}
}

func TestProjectService_GetActiveByUser(t *testing.T) {
	userID := uuid.New().String()
	cacheKey := "projects:options:" + userID

	t.Run("success cache hit skips the database", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		cached := []project.ProjectResponse{
			{ID: uuid.New().String(), Name: "Atlas", Status: project.StatusActive},
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		deps.redisMock.ExpectGet(cacheKey).SetVal(string(payload))

		repoCalled := false
		deps.repo.findActiveAssignedToUserFn = func(ctx context.Context, uid string) ([]project.Project, error) {
			repoCalled = true
			return nil, nil
		}

		resp, err := deps.service.GetActiveByUser(context.Background(), userID, rbac.RoleEmployee)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Atlas", resp[0].Name)
		assert.False(t, repoCalled)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("success cache miss reads assigned projects and fills the cache", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		p := activeProject("Borealis")
		deps.repo.findActiveAssignedToUserFn = func(ctx context.Context, uid string) ([]project.Project, error) {
			assert.Equal(t, userID, uid)
			return []project.Project{p}, nil
		}

		expected := []project.ProjectResponse{
			{
				ID:                  p.ID.String(),
				Name:                p.Name,
				ClientID:            p.ClientID.String(),
				DefaultBillableRate: "0.00",
				Status:              project.StatusActive,
			},
		}
		payload, err := json.Marshal(expected)
		assert.NoError(t, err)

		deps.redisMock.ExpectGet(cacheKey).RedisNil()
		deps.redisMock.ExpectSet(cacheKey, payload, 5*time.Minute).SetVal("OK")

		resp, err := deps.service.GetActiveByUser(context.Background(), userID, rbac.RoleEmployee)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Borealis", resp[0].Name)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("success admin sees every active project", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		allCalled := false
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]project.Project, error) {
			allCalled = true
			return []project.Project{activeProject("Atlas"), activeProject("Borealis")}, nil
		}
		deps.repo.findActiveAssignedToUserFn = func(ctx context.Context, uid string) ([]project.Project, error) {
			t.Fatal("assigned lookup should not be used for admins")
			return nil, nil
		}

		deps.redisMock.ExpectGet(cacheKey).RedisNil()

		resp, err := deps.service.GetActiveByUser(context.Background(), userID, rbac.RoleAdmin)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.True(t, allCalled)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		_, err := deps.service.GetActiveByUser(context.Background(), "not-a-uuid", rbac.RoleEmployee)

		assert.ErrorIs(t, err, projecterrors.ErrInvalidUserID)
	})

	t.Run("negative repository error propagates", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		deps.redisMock.ExpectGet(cacheKey).RedisNil()
		deps.repo.findActiveAssignedToUserFn = func(ctx context.Context, uid string) ([]project.Project, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.GetActiveByUser(context.Background(), userID, rbac.RoleEmployee)

		assert.Error(t, err)
	})
}

func TestProjectService_Create(t *testing.T) {
	t.Run("success creates project with assignments and invalidates caches", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		clientID := uuid.New().String()
		employeeID := uuid.New().String()

		var created *project.Project
		deps.repo.createFn = func(ctx context.Context, p *project.Project) error {
			created = p
			return nil
		}

		var assigned []string
		deps.repo.createAssignmentFn = func(ctx context.Context, a *project.ProjectAssignment) error {
			assigned = append(assigned, a.UserID.String())
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*project.Project, error) {
			return created, nil
		}

		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel("projects:options:" + employeeID).SetVal(1)

		resp, err := deps.service.Create(context.Background(), project.ProjectRequest{
			Name:                "Atlas",
			ClientID:            clientID,
			DefaultBillableRate: "120.50",
			EmployeeIDs:         []string{employeeID},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Atlas", resp.Name)
		assert.Equal(t, "120.50", resp.DefaultBillableRate)
		assert.Equal(t, project.StatusActive, resp.Status)
		assert.Equal(t, []string{employeeID}, assigned)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative rate must be a non-negative decimal", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(context.Background(), project.ProjectRequest{
			Name:                "Atlas",
			ClientID:            uuid.New().String(),
			DefaultBillableRate: "-1",
		})

		assert.ErrorIs(t, err, projecterrors.ErrInvalidRate)
	})

	t.Run("negative unknown client", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		deps.repo.clientExistsFn = func(ctx context.Context, clientID string) (bool, error) {
			return false, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(context.Background(), project.ProjectRequest{
			Name:                "Atlas",
			ClientID:            uuid.New().String(),
			DefaultBillableRate: "100",
		})

		assert.ErrorIs(t, err, projecterrors.ErrClientNotFound)
	})

	t.Run("negative unknown employee rolls back", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		deps.repo.userExistsFn = func(ctx context.Context, userID string) (bool, error) {
			return false, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(context.Background(), project.ProjectRequest{
			Name:                "Atlas",
			ClientID:            uuid.New().String(),
			DefaultBillableRate: "100",
			EmployeeIDs:         []string{uuid.New().String()},
		})

		assert.ErrorIs(t, err, projecterrors.ErrUserNotFound)
	})
}

func TestProjectService_Update(t *testing.T) {
	t.Run("success reconciles assignments", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		projectID := uuid.New()
		clientID := uuid.New()
		keepID := uuid.New()
		dropID := uuid.New()
		addID := uuid.New()
		dropAssignmentID := uuid.New()

		stored := &project.Project{
			ID:                  projectID,
			Name:                "Atlas",
			ClientID:            clientID,
			Status:              project.StatusActive,
			DefaultBillableRate: mustDecimal(t, "100"),
		}

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*project.Project, error) {
			return stored, nil
		}
		deps.repo.findAssignmentsFn = func(ctx context.Context, pid string) ([]project.ProjectAssignment, error) {
			return []project.ProjectAssignment{
				{ID: dropAssignmentID, UserID: dropID, ProjectID: projectID},
				{ID: uuid.New(), UserID: keepID, ProjectID: projectID},
			}, nil
		}

		var deleted []string
		deps.repo.deleteAssignmentFn = func(ctx context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		}

		var added []string
		deps.repo.createAssignmentFn = func(ctx context.Context, a *project.ProjectAssignment) error {
			added = append(added, a.UserID.String())
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel("projects:options:" + keepID.String()).SetVal(1)
		deps.redisMock.ExpectDel("projects:options:" + addID.String()).SetVal(1)

		resp, err := deps.service.Update(context.Background(), projectID.String(), project.ProjectRequest{
			Name:                "Atlas v2",
			ClientID:            clientID.String(),
			DefaultBillableRate: "150",
			EmployeeIDs:         []string{keepID.String(), addID.String()},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Atlas v2", resp.Name)
		assert.Equal(t, []string{dropAssignmentID.String()}, deleted)
		assert.Equal(t, []string{addID.String()}, added)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown project", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(context.Background(), uuid.New().String(), project.ProjectRequest{
			Name:                "Atlas",
			ClientID:            uuid.New().String(),
			DefaultBillableRate: "100",
		})

		assert.ErrorIs(t, err, projecterrors.ErrProjectNotFound)
	})
}

func TestProjectService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*project.Project, error) {
			return &project.Project{ID: id}, nil
		}

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, gotID string) error {
			assert.Equal(t, id.String(), gotID)
			deleted = true
			return nil
		}

		err := deps.service.Delete(context.Background(), id.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("negative unknown project", func(t *testing.T) {
		deps := setupProjectServiceTest(t)

		err := deps.service.Delete(context.Background(), uuid.New().String())

		assert.ErrorIs(t, err, projecterrors.ErrProjectNotFound)
	})
}
