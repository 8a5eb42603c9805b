package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool *Pool
}

// NewBookingRepository creates a SQLite-backed booking repository.
func NewBookingRepository(pool *Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateBooking inserts a confirmed appointment. A second booking for the
// same (user, date) pair surfaces as persistence.ErrDuplicate.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO bookings (id, user_id, date, name, email, observations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.Date.UTC().Format(time.RFC3339),
		booking.Name,
		booking.Email,
		booking.Observations,
		booking.CreatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// ListBookingsInRange returns the user's bookings with from <= date <= to,
// ordered by date ascending.
func (r *BookingRepository) ListBookingsInRange(ctx context.Context, userID string, from, to time.Time) ([]persistence.Booking, error) {
	query := `
		SELECT id, user_id, date, name, email, observations, created_at
		FROM bookings
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query,
		userID,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		var booking persistence.Booking
		var date, createdAt string

		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&date,
			&booking.Name,
			&booking.Email,
			&booking.Observations,
			&createdAt,
		)
		if err != nil {
			return nil, mapError(err)
		}

		if booking.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("sqlite: parse date: %w", err)
		}
		if booking.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return bookings, nil
}

// CountBookingsByDay tallies the user's bookings per day of month for the
// given calendar month. Days without bookings are absent from the result.
func (r *BookingRepository) CountBookingsByDay(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT date
		FROM bookings
		WHERE user_id = ? AND date >= ? AND date < ?
	`

	rows, err := r.pool.db.QueryContext(ctx, query,
		userID,
		monthStart.Format(time.RFC3339),
		monthEnd.Format(time.RFC3339),
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, mapError(err)
		}
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse date: %w", err)
		}
		counts[date.Day()]++
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return counts, nil
}
