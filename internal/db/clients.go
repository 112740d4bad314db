package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Client is an authenticated API consumer, typically a hiring manager or
// a recruiting team integration.
type Client struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email for lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateClient inserts a new API client with a pre-hashed password
func (db *DB) CreateClient(ctx context.Context, name, email, passwordHash string) (*Client, error) {
	client := Client{Name: name, Email: NormalizeEmail(email), PasswordHash: passwordHash}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO clients (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		client.Name, client.Email, client.PasswordHash,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

// GetClientByEmail looks up a client by normalized email. Returns nil when
// not found.
func (db *DB) GetClientByEmail(ctx context.Context, email string) (*Client, error) {
	var client Client
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM clients WHERE email = $1`,
		NormalizeEmail(email),
	).Scan(&client.ID, &client.Name, &client.Email, &client.PasswordHash,
		&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

// GetClientByID looks up a client by ID. Returns nil when not found.
func (db *DB) GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	var client Client
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM clients WHERE id = $1`,
		id,
	).Scan(&client.ID, &client.Name, &client.Email, &client.PasswordHash,
		&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}
