package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence"
)

// IntervalRepository implements persistence.IntervalRepository using SQLite.
type IntervalRepository struct {
	pool *Pool
}

// NewIntervalRepository creates a SQLite-backed interval repository.
func NewIntervalRepository(pool *Pool) *IntervalRepository {
	return &IntervalRepository{pool: pool}
}

// ReplaceIntervals swaps the user's stored availability windows for the given
// set inside a single transaction.
func (r *IntervalRepository) ReplaceIntervals(ctx context.Context, userID string, intervals []persistence.TimeInterval) error {
	if userID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM user_time_intervals WHERE user_id = ?", userID); err != nil {
			return mapError(err)
		}

		query := `
			INSERT INTO user_time_intervals
				(id, user_id, week_day, time_start_in_minutes, time_end_in_minutes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		for _, interval := range intervals {
			_, err := tx.Exec(query,
				interval.ID,
				userID,
				int(interval.Weekday),
				interval.StartMinute,
				interval.EndMinute,
				interval.CreatedAt.UTC().Format(time.RFC3339),
				interval.UpdatedAt.UTC().Format(time.RFC3339),
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetIntervalForWeekday returns the user's availability window for a weekday.
func (r *IntervalRepository) GetIntervalForWeekday(ctx context.Context, userID string, weekday time.Weekday) (persistence.TimeInterval, error) {
	query := `
		SELECT id, user_id, week_day, time_start_in_minutes, time_end_in_minutes, created_at, updated_at
		FROM user_time_intervals
		WHERE user_id = ? AND week_day = ?
	`

	row := r.pool.db.QueryRowContext(ctx, query, userID, int(weekday))
	return scanInterval(row)
}

// ListIntervals returns the user's availability windows ordered by weekday.
func (r *IntervalRepository) ListIntervals(ctx context.Context, userID string) ([]persistence.TimeInterval, error) {
	query := `
		SELECT id, user_id, week_day, time_start_in_minutes, time_end_in_minutes, created_at, updated_at
		FROM user_time_intervals
		WHERE user_id = ?
		ORDER BY week_day ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var intervals []persistence.TimeInterval
	for rows.Next() {
		interval, err := scanInterval(rows)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return intervals, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterval(row rowScanner) (persistence.TimeInterval, error) {
	var interval persistence.TimeInterval
	var weekday int
	var createdAt, updatedAt string

	err := row.Scan(
		&interval.ID,
		&interval.UserID,
		&weekday,
		&interval.StartMinute,
		&interval.EndMinute,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.TimeInterval{}, mapError(err)
	}

	interval.Weekday = time.Weekday(weekday)
	if interval.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.TimeInterval{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if interval.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.TimeInterval{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return interval, nil
}
