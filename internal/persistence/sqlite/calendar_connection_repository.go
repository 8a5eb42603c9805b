package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence"
)

// CalendarConnectionRepository implements
// persistence.CalendarConnectionRepository using SQLite.
type CalendarConnectionRepository struct {
	pool *Pool
}

// NewCalendarConnectionRepository creates a SQLite-backed connection repository.
func NewCalendarConnectionRepository(pool *Pool) *CalendarConnectionRepository {
	return &CalendarConnectionRepository{pool: pool}
}

// UpsertConnection stores or replaces the user's connected calendar account.
func (r *CalendarConnectionRepository) UpsertConnection(ctx context.Context, connection persistence.CalendarConnection) error {
	if connection.ID == "" || connection.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO calendar_connections
			(id, user_id, provider, access_token, refresh_token, token_expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			provider = excluded.provider,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expiry = excluded.token_expiry,
			updated_at = excluded.updated_at
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		connection.ID,
		connection.UserID,
		connection.Provider,
		connection.AccessToken,
		connection.RefreshToken,
		formatNullableTime(connection.TokenExpiry),
		connection.CreatedAt.UTC().Format(time.RFC3339),
		connection.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetConnection retrieves the user's connected calendar account.
func (r *CalendarConnectionRepository) GetConnection(ctx context.Context, userID string) (persistence.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expiry, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = ?
	`

	var connection persistence.CalendarConnection
	var tokenExpiry *string
	var createdAt, updatedAt string

	err := r.pool.db.QueryRowContext(ctx, query, userID).Scan(
		&connection.ID,
		&connection.UserID,
		&connection.Provider,
		&connection.AccessToken,
		&connection.RefreshToken,
		&tokenExpiry,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.CalendarConnection{}, mapError(err)
	}

	if tokenExpiry != nil {
		parsed, err := time.Parse(time.RFC3339, *tokenExpiry)
		if err != nil {
			return persistence.CalendarConnection{}, fmt.Errorf("sqlite: parse token_expiry: %w", err)
		}
		connection.TokenExpiry = &parsed
	}
	if connection.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.CalendarConnection{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if connection.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.CalendarConnection{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return connection, nil
}
