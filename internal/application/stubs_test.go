package application

import (
	"context"
	"time"
)

type userRepositoryStub struct {
	usersByID       map[string]User
	usersByUsername map[string]User
	createErr       error
	updateErr       error
	created         []User
	updated         []User
}

func newUserRepositoryStub() *userRepositoryStub {
	return &userRepositoryStub{
		usersByID:       make(map[string]User),
		usersByUsername: make(map[string]User),
	}
}

func (s *userRepositoryStub) seed(user User) {
	s.usersByID[user.ID] = user
	s.usersByUsername[user.Username] = user
}

func (s *userRepositoryStub) CreateUser(_ context.Context, user User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.usersByUsername[user.Username]; exists {
		return ErrAlreadyExists
	}
	s.created = append(s.created, user)
	s.seed(user)
	return nil
}

func (s *userRepositoryStub) UpdateUser(_ context.Context, user User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, exists := s.usersByID[user.ID]; !exists {
		return ErrNotFound
	}
	s.updated = append(s.updated, user)
	s.seed(user)
	return nil
}

func (s *userRepositoryStub) GetUser(_ context.Context, id string) (User, error) {
	user, ok := s.usersByID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *userRepositoryStub) GetUserByUsername(_ context.Context, username string) (User, error) {
	user, ok := s.usersByUsername[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

type intervalRepositoryStub struct {
	intervals  []TimeInterval
	replaceErr error
	replaced   [][]TimeInterval
}

func (s *intervalRepositoryStub) ReplaceIntervals(_ context.Context, userID string, intervals []TimeInterval) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = append(s.replaced, intervals)
	s.intervals = intervals
	return nil
}

func (s *intervalRepositoryStub) GetIntervalForWeekday(_ context.Context, userID string, weekday time.Weekday) (TimeInterval, error) {
	for _, interval := range s.intervals {
		if interval.UserID == userID && interval.Weekday == weekday {
			return interval, nil
		}
	}
	return TimeInterval{}, ErrNotFound
}

func (s *intervalRepositoryStub) ListIntervals(_ context.Context, userID string) ([]TimeInterval, error) {
	var out []TimeInterval
	for _, interval := range s.intervals {
		if interval.UserID == userID {
			out = append(out, interval)
		}
	}
	return out, nil
}

type bookingRepositoryStub struct {
	bookings  []Booking
	createErr error
	counts    map[int]int
}

func (s *bookingRepositoryStub) CreateBooking(_ context.Context, booking Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.bookings {
		if existing.UserID == booking.UserID && existing.Date.Equal(booking.Date) {
			return ErrAlreadyExists
		}
	}
	s.bookings = append(s.bookings, booking)
	return nil
}

func (s *bookingRepositoryStub) ListBookingsInRange(_ context.Context, userID string, from, to time.Time) ([]Booking, error) {
	var out []Booking
	for _, booking := range s.bookings {
		if booking.UserID != userID {
			continue
		}
		if booking.Date.Before(from) || booking.Date.After(to) {
			continue
		}
		out = append(out, booking)
	}
	return out, nil
}

func (s *bookingRepositoryStub) CountBookingsByDay(_ context.Context, userID string, year int, month time.Month) (map[int]int, error) {
	if s.counts != nil {
		return s.counts, nil
	}
	counts := make(map[int]int)
	for _, booking := range s.bookings {
		if booking.UserID == userID && booking.Date.Year() == year && booking.Date.Month() == month {
			counts[booking.Date.Day()]++
		}
	}
	return counts, nil
}

type sessionRepositoryStub struct {
	sessionsByToken map[string]Session
	createErr       error
	deleteErr       error
	deleteCalls     []time.Time
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{sessionsByToken: make(map[string]Session)}
}

func (s *sessionRepositoryStub) seed(session Session) {
	s.sessionsByToken[session.Token] = session
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session Session) (Session, error) {
	if s.createErr != nil {
		return Session{}, s.createErr
	}
	s.seed(session)
	return session, nil
}

func (s *sessionRepositoryStub) GetSession(_ context.Context, token string) (Session, error) {
	session, ok := s.sessionsByToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (Session, error) {
	session, ok := s.sessionsByToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	session.RevokedAt = &revokedAt
	session.UpdatedAt = revokedAt
	s.seed(session)
	return session, nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleteCalls = append(s.deleteCalls, reference)
	for token, session := range s.sessionsByToken {
		if !session.ExpiresAt.After(reference) {
			delete(s.sessionsByToken, token)
		}
	}
	return nil
}

type connectionRepositoryStub struct {
	connections map[string]CalendarConnection
	upsertErr   error
}

func newConnectionRepositoryStub() *connectionRepositoryStub {
	return &connectionRepositoryStub{connections: make(map[string]CalendarConnection)}
}

func (s *connectionRepositoryStub) UpsertConnection(_ context.Context, connection CalendarConnection) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.connections[connection.UserID] = connection
	return nil
}

func (s *connectionRepositoryStub) GetConnection(_ context.Context, userID string) (CalendarConnection, error) {
	connection, ok := s.connections[userID]
	if !ok {
		return CalendarConnection{}, ErrNotFound
	}
	return connection, nil
}
