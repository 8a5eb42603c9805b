// Package http provides HTTP handlers and middleware for the booking API.
//
// The router exposes the following endpoints:
//   - POST /users: claims a username. Body: {"username","name"}. Responds 201
//     with the created user plus a bearer token and its expiry.
//   - PUT /users/profile: updates the caller's bio (session required).
//   - POST /users/time-intervals: replaces the caller's weekly availability
//     windows, submitted as {"intervals":[{"weekDay","startTime","endTime"}]}
//     with "HH:MM" time strings (session required).
//   - GET /users/{username}/availability?date=YYYY-MM-DD: the possible and
//     still available hour slots for one date.
//   - GET /users/{username}/blocked-dates?year&month: weekdays without a
//     window and fully booked days of the month.
//   - GET /users/{username}/calendar?year&month: the month grid rendered as
//     weekday headers plus rows of seven days.
//   - POST /users/{username}/schedule: books an hour slot. Body:
//     {"name","email","observations","date"} with an RFC 3339 date.
//   - DELETE /sessions/current: revokes the caller's session (session required).
//   - GET /auth/calendar/connect and /auth/calendar/callback: the OAuth flow
//     linking a calendar account to the caller (session required).
//   - GET /auth/calendar/status: whether the caller has a calendar connected
//     (session required).
//
// Request and response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
