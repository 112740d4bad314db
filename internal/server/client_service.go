package server

import (
	"context"
	"fmt"

	"github.com/jonathan/req-consultant/internal/config"
	"github.com/jonathan/req-consultant/internal/db"
)

// RegisterRequest is the payload for client registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the payload for client login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the authenticated client and its access token
type LoginResponse struct {
	Client *db.Client `json:"client"`
	Token  string     `json:"token"`
}

// ClientService handles registration and login for API clients
type ClientService struct {
	db       *db.DB
	password *config.PasswordConfig
}

// NewClientService creates a client service backed by the given database
func NewClientService(database *db.DB, passwordConfig *config.PasswordConfig) *ClientService {
	return &ClientService{db: database, password: passwordConfig}
}

// Register creates a new client account. Email collisions return
// ErrEmailAlreadyExists.
func (s *ClientService) Register(ctx context.Context, req *RegisterRequest) (*db.Client, error) {
	email := db.NormalizeEmail(req.Email)

	existing, err := s.db.GetClientByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing client: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := s.password.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	client, err := s.db.CreateClient(ctx, req.Name, email, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// Login verifies credentials. Unknown emails and wrong passwords return
// the same error so the response does not leak which one was wrong.
func (s *ClientService) Login(ctx context.Context, req *LoginRequest) (*db.Client, error) {
	client, err := s.db.GetClientByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.password.VerifyPassword(req.Password, client.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return client, nil
}
