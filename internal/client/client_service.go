package client

import (
	"context"
	"errors"

	clienterrors "go-ems/internal/client/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=client_service.go -destination=mock/client_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]ClientResponse, error)
	GetByID(ctx context.Context, id string) (ClientResponse, error)
	Search(ctx context.Context, name string) ([]ClientResponse, error)
	Create(ctx context.Context, req ClientRequest) (ClientResponse, error)
	Update(ctx context.Context, id string, req ClientRequest) (ClientResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("client.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("client.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(clients), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ClientResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ClientResponse{}, clienterrors.ErrInvalidClientID
	}

	cl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClientResponse{}, clienterrors.ErrClientNotFound
		}
		return ClientResponse{}, err
	}
	return mapToResponse(*cl), nil
}

func (s *service) Search(ctx context.Context, name string) ([]ClientResponse, error) {
	clients, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(clients), nil
}

func (s *service) Create(ctx context.Context, req ClientRequest) (ClientResponse, error) {
	cl := &Client{
		ID:            uuid.New(),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		Address:       req.Address,
	}

	if err := s.repo.Create(ctx, cl); err != nil {
		s.logger.Error("create client persist failed", zap.Error(err))
		return ClientResponse{}, err
	}

	s.logger.Info("create client success", zap.String("client_id", cl.ID.String()))
	return mapToResponse(*cl), nil
}

func (s *service) Update(ctx context.Context, id string, req ClientRequest) (ClientResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ClientResponse{}, clienterrors.ErrInvalidClientID
	}

	cl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClientResponse{}, clienterrors.ErrClientNotFound
		}
		return ClientResponse{}, err
	}

	cl.Name = req.Name
	cl.ContactPerson = req.ContactPerson
	cl.ContactEmail = req.ContactEmail
	cl.Address = req.Address

	if err := s.repo.Update(ctx, cl); err != nil {
		s.logger.Error("update client persist failed",
			zap.String("client_id", id),
			zap.Error(err),
		)
		return ClientResponse{}, err
	}

	s.logger.Info("update client success", zap.String("client_id", id))
	return mapToResponse(*cl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return clienterrors.ErrInvalidClientID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return clienterrors.ErrClientNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func mapToResponse(cl Client) ClientResponse {
	return ClientResponse{
		ID:            cl.ID.String(),
		Name:          cl.Name,
		ContactPerson: cl.ContactPerson,
		ContactEmail:  cl.ContactEmail,
		Address:       cl.Address,
	}
}

func mapToListResponse(clients []Client) []ClientResponse {
	resp := make([]ClientResponse, len(clients))
	for i, cl := range clients {
		resp[i] = mapToResponse(cl)
	}
	return resp
}
