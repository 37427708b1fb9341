package user

import (
	"context"
	"errors"
	"fmt"

	"gymhub/internal/auth"
	"gymhub/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrLocationNotFound   = errors.New("location not found")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, userID int64) (*User, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*User, error)
	ListEmployees(ctx context.Context, locationID *int64) ([]User, error)
	DeactivateEmployee(ctx context.Context, id int64) error
	ListMembers(ctx context.Context, locationID *int64) ([]User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.checkEmail(ctx, req.Email); err != nil {
		return nil, err
	}
	if req.LocationID != nil {
		if err := s.checkLocation(ctx, *req.LocationID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleMember,
		Phone:        req.Phone,
		LocationID:   req.LocationID,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("user registered", "user_id", u.ID)

	return s.issue(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrAccountDisabled
	}
	return s.issue(u)
}

func (s *service) issue(u *User) (*AuthResponse, error) {
	token, err := auth.GenerateToken(u.ID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:        token,
		Type:         "Bearer",
		UserID:       u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		LocationID:   u.LocationID,
		LocationName: u.LocationName,
	}, nil
}

func (s *service) GetByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*User, error) {
	if err := s.checkEmail(ctx, req.Email); err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, req.LocationID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	loc := req.LocationID
	return s.repo.Create(ctx, NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleEmployee,
		Phone:        req.Phone,
		LocationID:   &loc,
	})
}

func (s *service) ListEmployees(ctx context.Context, locationID *int64) ([]User, error) {
	return s.repo.ListByRole(ctx, auth.RoleEmployee, locationID)
}

func (s *service) DeactivateEmployee(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id, auth.RoleEmployee)
}

func (s *service) ListMembers(ctx context.Context, locationID *int64) ([]User, error) {
	return s.repo.ListByRole(ctx, auth.RoleMember, locationID)
}

func (s *service) checkEmail(ctx context.Context, email string) error {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailExists
	}
	return nil
}

func (s *service) checkLocation(ctx context.Context, id int64) error {
	ok, err := s.repo.LocationExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLocationNotFound
	}
	return nil
}
