package persistence

import "time"

// User is an account owner who can be booked by visitors.
type User struct {
	ID        string
	Username  string
	Name      string
	Email     *string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeInterval is one recurring weekly availability window, at most one per
// weekday per user. Minute offsets are minute-of-day values in [0, 1440].
type TimeInterval struct {
	ID          string
	UserID      string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Booking is a confirmed appointment created by a visitor. Bookings are
// immutable once stored.
type Booking struct {
	ID           string
	UserID       string
	Date         time.Time
	Name         string
	Email        string
	Observations *string
	CreatedAt    time.Time
}

// Session is an authentication session persisted for an account owner.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// CalendarConnection stores the OAuth material for a user's connected
// calendar account. Token fields hold ciphertext; encryption happens in the
// application layer before the record reaches storage.
type CalendarConnection struct {
	ID           string
	UserID       string
	Provider     string
	AccessToken  string
	RefreshToken string
	TokenExpiry  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
