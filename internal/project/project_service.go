package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	projecterrors "go-ems/internal/project/errors"
	"go-ems/internal/rbac"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

const projectOptionsKeyPrefix = "projects:options:"

func projectOptionsKey(userID string) string {
	return projectOptionsKeyPrefix + userID
}

//go:generate mockgen -source=project_service.go -destination=mock/project_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]ProjectResponse, error)
	GetByID(ctx context.Context, id string) (ProjectResponse, error)
	GetByClient(ctx context.Context, clientID string) ([]ProjectResponse, error)
	GetActiveByUser(ctx context.Context, userID, role string) ([]ProjectResponse, error)
	Create(ctx context.Context, req ProjectRequest) (ProjectResponse, error)
	Update(ctx context.Context, id string, req ProjectRequest) (ProjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("project.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("project.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]ProjectResponse, error) {
	projects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(projects), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectResponse{}, projecterrors.ErrProjectNotFound
		}
		return ProjectResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByClient(ctx context.Context, clientID string) ([]ProjectResponse, error) {
	projects, err := s.repo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(projects), nil
}

// GetActiveByUser returns the projects a user may book time against:
// admins see every active project, everyone else only assigned ones.
// The result is cached briefly; singleflight collapses concurrent
// misses into one database read.
func (s *service) GetActiveByUser(ctx context.Context, userID, role string) ([]ProjectResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, projecterrors.ErrInvalidUserID
	}

	cacheKey := projectOptionsKey(userID)

	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached []ProjectResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		var (
			projects []Project
			err      error
		)
		if role == rbac.RoleAdmin {
			projects, err = s.repo.FindAllActive(ctx)
		} else {
			projects, err = s.repo.FindActiveAssignedToUser(ctx, userID)
		}
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(projects)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, 5*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]ProjectResponse), nil
}

func (s *service) Create(ctx context.Context, req ProjectRequest) (ProjectResponse, error) {
	s.logger.Debug("create project requested",
		zap.String("name", req.Name),
		zap.String("client_id", req.ClientID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProjectResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rate, err := parseRate(req.DefaultBillableRate)
	if err != nil {
		return ProjectResponse{}, err
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return ProjectResponse{}, projecterrors.ErrClientNotFound
	}
	exists, err := qtx.ClientExists(ctx, req.ClientID)
	if err != nil {
		return ProjectResponse{}, err
	}
	if !exists {
		return ProjectResponse{}, projecterrors.ErrClientNotFound
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	p := &Project{
		ID:                  uuid.New(),
		Name:                req.Name,
		ClientID:            clientID,
		DefaultBillableRate: rate,
		Status:              status,
	}

	if err := qtx.Create(ctx, p); err != nil {
		s.logger.Error("create project persist failed", zap.Error(err))
		return ProjectResponse{}, err
	}

	if err := s.assignEmployees(ctx, qtx, p.ID, req.EmployeeIDs); err != nil {
		return ProjectResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProjectResponse{}, err
	}

	s.invalidateOptionsCache(ctx, req.EmployeeIDs)
	s.logger.Info("create project success", zap.String("project_id", p.ID.String()))

	created, err := s.repo.FindByID(ctx, p.ID.String())
	if err != nil {
		return ProjectResponse{}, err
	}
	return mapToResponse(*created), nil
}

func (s *service) Update(ctx context.Context, id string, req ProjectRequest) (ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProjectResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rate, err := parseRate(req.DefaultBillableRate)
	if err != nil {
		return ProjectResponse{}, err
	}

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectResponse{}, projecterrors.ErrProjectNotFound
		}
		return ProjectResponse{}, err
	}

	if p.ClientID.String() != req.ClientID {
		exists, err := qtx.ClientExists(ctx, req.ClientID)
		if err != nil {
			return ProjectResponse{}, err
		}
		if !exists {
			return ProjectResponse{}, projecterrors.ErrClientNotFound
		}
		p.ClientID = uuid.MustParse(req.ClientID)
		p.Client = nil
	}

	p.Name = req.Name
	p.DefaultBillableRate = rate
	if req.Status != "" {
		p.Status = req.Status
	}
	p.Assignments = nil

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update project persist failed",
			zap.String("project_id", id),
			zap.Error(err),
		)
		return ProjectResponse{}, err
	}

	if req.EmployeeIDs != nil {
		if err := s.reconcileAssignments(ctx, qtx, p.ID, req.EmployeeIDs); err != nil {
			return ProjectResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ProjectResponse{}, err
	}

	s.invalidateOptionsCache(ctx, req.EmployeeIDs)
	s.logger.Info("update project success", zap.String("project_id", id))

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProjectResponse{}, err
	}
	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return projecterrors.ErrInvalidProjectID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return projecterrors.ErrProjectNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) assignEmployees(ctx context.Context, repo Repository, projectID uuid.UUID, employeeIDs []string) error {
	for _, employeeID := range employeeIDs {
		userID, err := uuid.Parse(employeeID)
		if err != nil {
			return projecterrors.ErrInvalidUserID
		}

		exists, err := repo.UserExists(ctx, employeeID)
		if err != nil {
			return err
		}
		if !exists {
			return projecterrors.ErrUserNotFound
		}

		if err := repo.CreateAssignment(ctx, &ProjectAssignment{
			ID:        uuid.New(),
			UserID:    userID,
			ProjectID: projectID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// reconcileAssignments diffs the stored assignment set against the
// requested one, deleting rows that dropped out and adding new ones.
func (s *service) reconcileAssignments(ctx context.Context, repo Repository, projectID uuid.UUID, employeeIDs []string) error {
	current, err := repo.FindAssignments(ctx, projectID.String())
	if err != nil {
		return err
	}

	requested := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		requested[id] = true
	}

	existing := make(map[string]bool, len(current))
	for _, a := range current {
		existing[a.UserID.String()] = true
		if !requested[a.UserID.String()] {
			if err := repo.DeleteAssignment(ctx, a.ID.String()); err != nil {
				return err
			}
		}
	}

	var added []string
	for _, id := range employeeIDs {
		if !existing[id] {
			added = append(added, id)
		}
	}
	return s.assignEmployees(ctx, repo, projectID, added)
}

func (s *service) invalidateOptionsCache(ctx context.Context, employeeIDs []string) {
	if s.rdb == nil {
		return
	}
	for _, id := range employeeIDs {
		s.rdb.Del(ctx, projectOptionsKey(id))
	}
}

func parseRate(v string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(v)
	if err != nil || rate.IsNegative() {
		return decimal.Zero, projecterrors.ErrInvalidRate
	}
	return rate, nil
}

func mapToResponse(p Project) ProjectResponse {
	resp := ProjectResponse{
		ID:                  p.ID.String(),
		Name:                p.Name,
		ClientID:            p.ClientID.String(),
		DefaultBillableRate: p.DefaultBillableRate.StringFixed(2),
		Status:              p.Status,
	}
	if p.Client != nil {
		resp.ClientName = p.Client.Name
	}
	for _, a := range p.Assignments {
		resp.EmployeeIDs = append(resp.EmployeeIDs, a.UserID.String())
	}
	return resp
}

func mapToListResponse(projects []Project) []ProjectResponse {
	resp := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		resp[i] = mapToResponse(p)
	}
	return resp
}
