package persistence

import (
	"context"
	"time"
)

// UserRepository exposes account owner storage operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// IntervalRepository stores weekly availability windows.
type IntervalRepository interface {
	// ReplaceIntervals atomically swaps the user's stored intervals for the
	// provided set.
	ReplaceIntervals(ctx context.Context, userID string, intervals []TimeInterval) error
	GetIntervalForWeekday(ctx context.Context, userID string, weekday time.Weekday) (TimeInterval, error)
	ListIntervals(ctx context.Context, userID string) ([]TimeInterval, error)
}

// BookingRepository stores confirmed appointments.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	// ListBookingsInRange returns bookings with from <= date <= to, ordered by
	// date ascending.
	ListBookingsInRange(ctx context.Context, userID string, from, to time.Time) ([]Booking, error)
	// CountBookingsByDay returns the number of bookings per day of month for
	// the given calendar month.
	CountBookingsByDay(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// CalendarConnectionRepository stores connected calendar accounts, one per user.
type CalendarConnectionRepository interface {
	UpsertConnection(ctx context.Context, connection CalendarConnection) error
	GetConnection(ctx context.Context, userID string) (CalendarConnection, error)
}
