package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/application"
	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence"
	"github.com/larissabakken/uncomplicated-scheduling/internal/timeslot"
)

var (
	userCounter       uint64
	intervalCounter   uint64
	bookingCounter    uint64
	sessionCounter    uint64
	connectionCounter uint64
)

// referenceTime falls on a Monday so weekday dependent fixtures line up with
// the default availability window.
var referenceTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic account owner record that can be
// materialised for application or persistence tests.
type UserFixture struct {
	ID        string
	Username  string
	Name      string
	Email     *string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:        fmt.Sprintf("user-%03d", idx),
		Username:  fmt.Sprintf("owner-%03d", idx),
		Name:      fmt.Sprintf("Owner %03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserUsername overrides the generated username.
func WithUserUsername(username string) UserOption {
	return func(f *UserFixture) {
		f.Username = username
	}
}

// WithUserName overrides the generated display name.
func WithUserName(name string) UserOption {
	return func(f *UserFixture) {
		f.Name = name
	}
}

// WithUserEmail sets the contact email on the fixture.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		value := email
		f.Email = &value
	}
}

// WithUserBio sets the profile bio on the fixture.
func WithUserBio(bio string) UserOption {
	return func(f *UserFixture) {
		value := bio
		f.Bio = &value
	}
}

// WithUserTimestamps sets both created and updated timestamps on the fixture.
func WithUserTimestamps(created, updated time.Time) UserOption {
	return func(f *UserFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:        f.ID,
		Username:  f.Username,
		Name:      f.Name,
		Email:     copyStringPtr(f.Email),
		Bio:       copyStringPtr(f.Bio),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:        f.ID,
		Username:  f.Username,
		Name:      f.Name,
		Email:     copyStringPtr(f.Email),
		Bio:       copyStringPtr(f.Bio),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.UserInput.
func (f UserFixture) Input() application.UserInput {
	return application.UserInput{
		Username: f.Username,
		Name:     f.Name,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID}
}

// --------------------------- Interval fixtures ---------------------------

// IntervalFixture represents a deterministic weekly availability window.
type IntervalFixture struct {
	ID          string
	UserID      string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IntervalOption configures the generated interval fixture.
type IntervalOption func(*IntervalFixture)

// NewIntervalFixture returns a deterministic interval fixture with optional
// overrides. The default window is Monday 08:00 to 17:00.
func NewIntervalFixture(opts ...IntervalOption) IntervalFixture {
	idx := atomic.AddUint64(&intervalCounter, 1)
	fixture := IntervalFixture{
		ID:          fmt.Sprintf("interval-%03d", idx),
		UserID:      fmt.Sprintf("user-%03d", idx),
		Weekday:     time.Monday,
		StartMinute: 8 * 60,
		EndMinute:   17 * 60,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithIntervalID overrides the interval ID.
func WithIntervalID(id string) IntervalOption {
	return func(f *IntervalFixture) {
		f.ID = id
	}
}

// WithIntervalUserID sets the owning user ID.
func WithIntervalUserID(id string) IntervalOption {
	return func(f *IntervalFixture) {
		f.UserID = id
	}
}

// WithIntervalWeekday sets the weekday of the window.
func WithIntervalWeekday(day time.Weekday) IntervalOption {
	return func(f *IntervalFixture) {
		f.Weekday = day
	}
}

// WithIntervalWindow sets the start and end minute-of-day offsets.
func WithIntervalWindow(startMinute, endMinute int) IntervalOption {
	return func(f *IntervalFixture) {
		f.StartMinute = startMinute
		f.EndMinute = endMinute
	}
}

// Application returns the fixture as an application.TimeInterval value.
func (f IntervalFixture) Application() application.TimeInterval {
	return application.TimeInterval{
		ID:          f.ID,
		UserID:      f.UserID,
		Weekday:     f.Weekday,
		StartMinute: f.StartMinute,
		EndMinute:   f.EndMinute,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.TimeInterval value.
func (f IntervalFixture) Persistence() persistence.TimeInterval {
	return persistence.TimeInterval{
		ID:          f.ID,
		UserID:      f.UserID,
		Weekday:     f.Weekday,
		StartMinute: f.StartMinute,
		EndMinute:   f.EndMinute,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.IntervalInput with the minute
// offsets rendered back into "HH:MM" strings.
func (f IntervalFixture) Input() application.IntervalInput {
	return application.IntervalInput{
		Weekday:   int(f.Weekday),
		StartTime: timeslot.FormatMinutes(f.StartMinute),
		EndTime:   timeslot.FormatMinutes(f.EndMinute),
	}
}

// ---------------------------- Booking fixtures ---------------------------

// BookingFixture represents a deterministic booking record.
type BookingFixture struct {
	ID           string
	UserID       string
	Date         time.Time
	Name         string
	Email        string
	Observations *string
	CreatedAt    time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a deterministic booking fixture with optional
// overrides. Consecutive fixtures occupy consecutive hour slots.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-%03d", idx),
		UserID:    fmt.Sprintf("user-%03d", idx),
		Date:      referenceTime.Add(time.Duration(idx) * time.Hour),
		Name:      fmt.Sprintf("Visitor %03d", idx),
		Email:     fmt.Sprintf("visitor-%03d@example.com", idx),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the booking ID.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.ID = id
	}
}

// WithBookingUserID sets the booked user ID.
func WithBookingUserID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.UserID = id
	}
}

// WithBookingDate sets the slot timestamp.
func WithBookingDate(t time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.Date = t
	}
}

// WithBookingVisitor sets the visitor name and email.
func WithBookingVisitor(name, email string) BookingOption {
	return func(f *BookingFixture) {
		f.Name = name
		f.Email = email
	}
}

// WithBookingObservations sets the optional observations text.
func WithBookingObservations(text string) BookingOption {
	return func(f *BookingFixture) {
		value := text
		f.Observations = &value
	}
}

// Application returns the fixture as an application.Booking value.
func (f BookingFixture) Application() application.Booking {
	return application.Booking{
		ID:           f.ID,
		UserID:       f.UserID,
		Date:         f.Date,
		Name:         f.Name,
		Email:        f.Email,
		Observations: copyStringPtr(f.Observations),
		CreatedAt:    f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Booking value.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:           f.ID,
		UserID:       f.UserID,
		Date:         f.Date,
		Name:         f.Name,
		Email:        f.Email,
		Observations: copyStringPtr(f.Observations),
		CreatedAt:    f.CreatedAt,
	}
}

// Input returns the fixture as an application.BookingInput.
func (f BookingFixture) Input() application.BookingInput {
	var observations string
	if f.Observations != nil {
		observations = *f.Observations
	}
	return application.BookingInput{
		Date:         f.Date,
		Name:         f.Name,
		Email:        f.Email,
		Observations: observations,
	}
}

// ---------------------------- Session fixtures ---------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    fmt.Sprintf("user-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: referenceTime.Add(7 * 24 * time.Hour),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionUserID sets the user ID.
func WithSessionUserID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.UserID = id
	}
}

// WithSessionToken overrides the token value.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionExpiresAt sets the expiration timestamp.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = t
	}
}

// WithSessionRevokedAt sets the optional revoked timestamp.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		revoked := t
		f.RevokedAt = &revoked
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	var revoked *time.Time
	if f.RevokedAt != nil {
		t := *f.RevokedAt
		revoked = &t
	}
	return application.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: revoked,
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	var revoked *time.Time
	if f.RevokedAt != nil {
		t := *f.RevokedAt
		revoked = &t
	}
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: revoked,
	}
}

// -------------------------- Connection fixtures --------------------------

// ConnectionFixture represents a deterministic calendar connection record.
// Token fields carry opaque ciphertext placeholders.
type ConnectionFixture struct {
	ID           string
	UserID       string
	Provider     string
	AccessToken  string
	RefreshToken string
	TokenExpiry  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ConnectionOption configures the generated connection fixture.
type ConnectionOption func(*ConnectionFixture)

// NewConnectionFixture returns a deterministic connection fixture with
// optional overrides.
func NewConnectionFixture(opts ...ConnectionOption) ConnectionFixture {
	idx := atomic.AddUint64(&connectionCounter, 1)
	fixture := ConnectionFixture{
		ID:           fmt.Sprintf("connection-%03d", idx),
		UserID:       fmt.Sprintf("user-%03d", idx),
		Provider:     "google",
		AccessToken:  fmt.Sprintf("ciphertext-access-%03d", idx),
		RefreshToken: fmt.Sprintf("ciphertext-refresh-%03d", idx),
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithConnectionID overrides the connection ID.
func WithConnectionID(id string) ConnectionOption {
	return func(f *ConnectionFixture) {
		f.ID = id
	}
}

// WithConnectionUserID sets the owning user ID.
func WithConnectionUserID(id string) ConnectionOption {
	return func(f *ConnectionFixture) {
		f.UserID = id
	}
}

// WithConnectionProvider sets the provider name.
func WithConnectionProvider(provider string) ConnectionOption {
	return func(f *ConnectionFixture) {
		f.Provider = provider
	}
}

// WithConnectionTokens sets the encrypted token values.
func WithConnectionTokens(access, refresh string) ConnectionOption {
	return func(f *ConnectionFixture) {
		f.AccessToken = access
		f.RefreshToken = refresh
	}
}

// WithConnectionTokenExpiry sets the optional token expiry timestamp.
func WithConnectionTokenExpiry(t time.Time) ConnectionOption {
	return func(f *ConnectionFixture) {
		expiry := t
		f.TokenExpiry = &expiry
	}
}

// Application returns the fixture as an application.CalendarConnection value.
func (f ConnectionFixture) Application() application.CalendarConnection {
	var expiry *time.Time
	if f.TokenExpiry != nil {
		t := *f.TokenExpiry
		expiry = &t
	}
	return application.CalendarConnection{
		ID:           f.ID,
		UserID:       f.UserID,
		Provider:     f.Provider,
		AccessToken:  f.AccessToken,
		RefreshToken: f.RefreshToken,
		TokenExpiry:  expiry,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.CalendarConnection value.
func (f ConnectionFixture) Persistence() persistence.CalendarConnection {
	var expiry *time.Time
	if f.TokenExpiry != nil {
		t := *f.TokenExpiry
		expiry = &t
	}
	return persistence.CalendarConnection{
		ID:           f.ID,
		UserID:       f.UserID,
		Provider:     f.Provider,
		AccessToken:  f.AccessToken,
		RefreshToken: f.RefreshToken,
		TokenExpiry:  expiry,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// helper to deep copy optional strings.
func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
