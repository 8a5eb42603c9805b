package application

import "time"

// Principal represents the authenticated account owner invoking a service method.
type Principal struct {
	UserID string
}

// UserInput captures caller provided registration fields.
type UserInput struct {
	Username string
	Name     string
}

// User represents an account owner exposed by the application services.
type User struct {
	ID        string
	Username  string
	Name      string
	Email     *string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisterParams wraps the data required to claim a username.
type RegisterParams struct {
	Input UserInput
}

// UpdateProfileParams wraps the data required to update the caller's profile.
type UpdateProfileParams struct {
	Principal Principal
	Bio       string
}

// IntervalInput captures one weekly availability window as submitted by the owner.
type IntervalInput struct {
	Weekday   int
	StartTime string
	EndTime   string
}

// TimeInterval represents a persisted weekly availability window.
type TimeInterval struct {
	ID          string
	UserID      string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SetIntervalsParams wraps the data required to replace the owner's weekly windows.
type SetIntervalsParams struct {
	Principal Principal
	Intervals []IntervalInput
}

// BookingInput captures visitor provided booking fields.
type BookingInput struct {
	Date         time.Time
	Name         string
	Email        string
	Observations string
}

// Booking represents a confirmed appointment.
type Booking struct {
	ID           string
	UserID       string
	Date         time.Time
	Name         string
	Email        string
	Observations *string
	CreatedAt    time.Time
}

// CreateBookingParams wraps the data required to book a slot on a user's page.
type CreateBookingParams struct {
	Username string
	Input    BookingInput
}

// Availability lists the hour slots for a single day on a user's page.
type Availability struct {
	PossibleTimes  []int
	AvailableTimes []int
}

// BlockedDates describes which weekdays and month days cannot be booked.
type BlockedDates struct {
	BlockedWeekDays []int
	BlockedDates    []int
}

// CalendarDay is one cell of a rendered month calendar.
type CalendarDay struct {
	Date     time.Time
	Disabled bool
}

// MonthCalendar is a month rendered as weekday headers plus rows of seven days.
type MonthCalendar struct {
	WeekdayHeaders []string
	Weeks          [][]CalendarDay
}

// Session represents an authenticated session issued to an account owner.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// CalendarConnection represents an OAuth calendar account linked to an owner.
// Token fields hold ciphertext; only the calendar service sees plaintext.
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
