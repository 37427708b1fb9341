package location

import (
	"context"
	"errors"

	"gymhub/internal/logger"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrNameTaken        = errors.New("location name already exists")
)

type Service interface {
	Create(ctx context.Context, req LocationRequest) (*Location, error)
	List(ctx context.Context) ([]Location, error)
	Get(ctx context.Context, id int64) (*Location, error)
	Update(ctx context.Context, id int64, req LocationRequest) (*Location, error)
	Deactivate(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req LocationRequest) (*Location, error) {
	taken, err := s.repo.NameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}

	loc, err := s.repo.Create(ctx, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	logger.Info("location created", "location_id", loc.ID)
	return loc, nil
}

func (s *service) List(ctx context.Context) ([]Location, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*Location, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, req LocationRequest) (*Location, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	taken, err := s.repo.NameTaken(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}
	return s.repo.Update(ctx, id, req.Name, req.Address)
}

func (s *service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
