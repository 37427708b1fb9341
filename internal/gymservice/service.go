package gymservice

import (
	"context"
	"errors"

	"gymhub/internal/logger"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrNameTaken        = errors.New("service name already exists at location")
	ErrLocationNotFound = errors.New("location not found")
)

type Service interface {
	Create(ctx context.Context, req ServiceRequest, createdBy int64) (*GymService, error)
	List(ctx context.Context) ([]GymService, error)
	ListByLocation(ctx context.Context, locationID int64) ([]GymService, error)
	Get(ctx context.Context, id int64) (*GymService, error)
	Update(ctx context.Context, id int64, req ServiceRequest) (*GymService, error)
	Deactivate(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req ServiceRequest, createdBy int64) (*GymService, error) {
	ok, err := s.repo.LocationExists(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocationNotFound
	}

	taken, err := s.repo.NameTaken(ctx, req.Name, req.LocationID, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}

	if req.DurationMinutes == 0 {
		req.DurationMinutes = DefaultDuration
	}

	svc, err := s.repo.Create(ctx, req, createdBy)
	if err != nil {
		return nil, err
	}
	logger.Info("gym service created", "service_id", svc.ID, "location_id", svc.LocationID)
	return svc, nil
}

func (s *service) List(ctx context.Context) ([]GymService, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByLocation(ctx context.Context, locationID int64) ([]GymService, error) {
	return s.repo.ListByLocation(ctx, locationID)
}

func (s *service) Get(ctx context.Context, id int64) (*GymService, error) {
	return s.repo.GetByID(ctx, id)
}

// Update changes name, description, price and duration. The location is fixed
// once the service exists.
func (s *service) Update(ctx context.Context, id int64, req ServiceRequest) (*GymService, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != current.Name {
		taken, err := s.repo.NameTaken(ctx, req.Name, current.LocationID, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNameTaken
		}
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = current.DurationMinutes
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
