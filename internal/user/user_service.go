package user

import (
	"context"
	"strings"
	"time"

	"go-ems/internal/rbac"
	usererrors "go-ems/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// defaultPassword is assigned when an admin creates a user without one.
const defaultPassword = "ChangeMe123!"

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	GetByEmail(ctx context.Context, email string) (UserResponse, error)
	GetDirectReports(ctx context.Context, managerID string) ([]UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) (UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (UserResponse, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) GetDirectReports(ctx context.Context, managerID string) ([]UserResponse, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, usererrors.ErrInvalidManagerID
	}

	users, err := s.repo.FindActiveDirectReports(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	s.logger.Debug("create user requested",
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return UserResponse{}, err
	}
	if exists {
		return UserResponse{}, usererrors.ErrEmailAlreadyExists
	}

	managerID, err := s.resolveManager(ctx, req.Role, req.ManagerID)
	if err != nil {
		return UserResponse{}, err
	}

	hireDate, err := parseOptionalDate(req.HireDate)
	if err != nil {
		return UserResponse{}, err
	}

	password := req.Password
	if strings.TrimSpace(password) == "" {
		password = defaultPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:             uuid.New(),
		Email:          req.Email,
		HashedPassword: string(hashed),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		ManagerID:      managerID,
		IsActive:       true,
		HireDate:       hireDate,
		Department:     req.Department,
		JobTitle:       req.JobTitle,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create user success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	if u.Email != req.Email {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return UserResponse{}, err
		}
		if exists {
			return UserResponse{}, usererrors.ErrEmailAlreadyExists
		}
	}

	managerID, err := s.resolveManager(ctx, req.Role, req.ManagerID)
	if err != nil {
		return UserResponse{}, err
	}

	hireDate, err := parseOptionalDate(req.HireDate)
	if err != nil {
		return UserResponse{}, err
	}

	u.Email = req.Email
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Role = req.Role
	u.ManagerID = managerID
	u.Manager = nil
	u.HireDate = hireDate
	u.Department = req.Department
	u.JobTitle = req.JobTitle
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if strings.TrimSpace(req.Password) != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		u.HashedPassword = string(hashed)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update user success", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Deactivate(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	u.IsActive = false
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("deactivate user success", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

// resolveManager enforces the employee-needs-manager rule and verifies
// the referenced manager exists.
func (s *service) resolveManager(ctx context.Context, role string, managerID *string) (*uuid.UUID, error) {
	if managerID == nil || *managerID == "" {
		if role == rbac.RoleEmployee {
			return nil, usererrors.ErrManagerRequired
		}
		return nil, nil
	}

	parsed, err := uuid.Parse(*managerID)
	if err != nil {
		return nil, usererrors.ErrInvalidManagerID
	}

	if _, err := s.repo.FindByID(ctx, parsed.String()); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == usererrors.ErrUserNotFound {
			return nil, usererrors.ErrManagerNotFound
		}
		return nil, mapped
	}

	return &parsed, nil
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, usererrors.ErrInvalidHireDate
	}
	return &t, nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Role:       u.Role,
		IsActive:   u.IsActive,
		Department: u.Department,
		JobTitle:   u.JobTitle,
	}
	if u.ManagerID != nil {
		v := u.ManagerID.String()
		resp.ManagerID = &v
	}
	if u.HireDate != nil {
		v := u.HireDate.Format("2006-01-02")
		resp.HireDate = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
