package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Nicki-CheckM/check-certificado/internal/models"
)

// Postgres wraps the database connection
type Postgres struct {
	*sql.DB
}

// NewPostgres connects to databaseURL and runs migrations.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	p := &Postgres{db}
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Migrate runs database migrations
func (db *Postgres) Migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS stored_tokens (
		id UUID PRIMARY KEY,
		token_key VARCHAR(255) UNIQUE NOT NULL,
		value TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.ExecContext(ctx, query)
	return err
}

// Save creates or replaces the value stored under key
func (db *Postgres) Save(ctx context.Context, key string, value []byte) error {
	token := &models.StoredToken{
		ID:        uuid.New().String(),
		Key:       key,
		Value:     string(value),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `INSERT INTO stored_tokens (id, token_key, value, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (token_key) DO UPDATE SET
			  value = EXCLUDED.value,
			  updated_at = EXCLUDED.updated_at`

	_, err := db.ExecContext(ctx, query,
		token.ID, token.Key, token.Value, token.CreatedAt, token.UpdatedAt,
	)
	return err
}

// Load retrieves the value stored under key
func (db *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	token := &models.StoredToken{}
	query := `SELECT id, token_key, value, created_at, updated_at
			  FROM stored_tokens WHERE token_key = $1`

	err := db.QueryRowContext(ctx, query, key).Scan(
		&token.ID, &token.Key, &token.Value, &token.CreatedAt, &token.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(token.Value), nil
}

// Delete removes the value stored under key
func (db *Postgres) Delete(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM stored_tokens WHERE token_key = $1`, key)
	return err
}
