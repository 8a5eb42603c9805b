package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/bookingflow"
)

// BookingService validates and records appointments made by visitors.
type BookingService struct {
	users       UserRepository
	bookings    BookingRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService constructs a BookingService with the provided dependencies.
func NewBookingService(users UserRepository, bookings BookingRepository, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(users, bookings, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a BookingService with a specified logger.
func NewBookingServiceWithLogger(users UserRepository, bookings BookingRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		users:       users,
		bookings:    bookings,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking records an appointment on the named user's page. The requested
// timestamp is normalized to the top of its hour; past slots are rejected and
// an occupied slot surfaces as ErrSlotTaken.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (booking Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.users == nil || s.bookings == nil {
		err = fmt.Errorf("booking repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking", "username", params.Username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID, "date", booking.Date).InfoContext(ctx, "booking created")
	}()

	var user User
	user, err = s.users.GetUserByUsername(ctx, strings.TrimSpace(params.Username))
	if err != nil {
		return
	}

	input := params.Input
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	vErr := &ValidationError{}
	if len(name) < 3 {
		vErr.add("name", "name needs at least 3 characters")
	}
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, mailErr := mail.ParseAddress(email); mailErr != nil {
		vErr.add("email", "email is invalid")
	}

	slot := topOfHour(input.Date)
	if slot.IsZero() {
		vErr.add("date", "date is required")
	} else if slot.Before(s.now()) {
		vErr.add("date", "date is in the past")
	}

	if vErr.HasErrors() {
		err = vErr
		return
	}

	booking = Booking{
		ID:        s.idGenerator(),
		UserID:    user.ID,
		Date:      slot,
		Name:      name,
		Email:     email,
		CreatedAt: s.now(),
	}
	if notes := strings.TrimSpace(input.Observations); notes != "" {
		booking.Observations = &notes
	}

	if err = s.bookings.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			err = ErrSlotTaken
		}
		booking = Booking{}
		return
	}

	return
}

func topOfHour(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// FlowCreator adapts the service to the booking flow's Creator interface for
// the named user's page.
func (s *BookingService) FlowCreator(username string) bookingflow.Creator {
	return &flowCreator{service: s, username: username}
}

type flowCreator struct {
	service  *BookingService
	username string
}

func (c *flowCreator) CreateBooking(ctx context.Context, slot time.Time, details bookingflow.Details) error {
	_, err := c.service.CreateBooking(ctx, CreateBookingParams{
		Username: c.username,
		Input: BookingInput{
			Date:         slot,
			Name:         details.Name,
			Email:        details.Email,
			Observations: details.Notes,
		},
	})
	return err
}
