package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/application"
)

type availabilityService interface {
	GetDayAvailability(ctx context.Context, username string, date time.Time) (application.Availability, error)
	GetBlockedDates(ctx context.Context, username string, year int, month time.Month) (application.BlockedDates, error)
	GetMonthCalendar(ctx context.Context, username string, year int, month time.Month) (application.MonthCalendar, error)
}

// AvailabilityHandler serves the public availability views of a user's page.
type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

// NewAvailabilityHandler wires the availability endpoints.
func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	base := defaultLogger(logger)
	return &AvailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AvailabilityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AvailabilityHandler", operation, attrs...)
}

// Availability lists the hour slots for one date.
func (h *AvailabilityHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := trimmedPathValue(r, "username")
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUsername)
		return
	}

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	logger := h.log(r.Context(), "Availability", "username", username, "date", date.Format("2006-01-02"))

	availability, err := h.service.GetDayAvailability(r.Context(), username, date)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("available_count", len(availability.AvailableTimes)).InfoContext(r.Context(), "availability computed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{
		PossibleTimes:  availability.PossibleTimes,
		AvailableTimes: availability.AvailableTimes,
	})
}

// BlockedDates lists the unavailable weekdays and fully booked days of a month.
func (h *AvailabilityHandler) BlockedDates(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := trimmedPathValue(r, "username")
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUsername)
		return
	}

	year, month, ok := parseYearMonth(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	logger := h.log(r.Context(), "BlockedDates", "username", username, "year", year, "month", int(month))

	blocked, err := h.service.GetBlockedDates(r.Context(), username, year, month)
	if err != nil {
		logger.ErrorContext(r.Context(), "blocked dates lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "blocked dates computed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, blockedDatesResponse{
		BlockedWeekDays: blocked.BlockedWeekDays,
		BlockedDates:    blocked.BlockedDates,
	})
}

// Calendar renders the full month grid.
func (h *AvailabilityHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := trimmedPathValue(r, "username")
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUsername)
		return
	}

	year, month, ok := parseYearMonth(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	logger := h.log(r.Context(), "Calendar", "username", username, "year", year, "month", int(month))

	calendar, err := h.service.GetMonthCalendar(r.Context(), username, year, month)
	if err != nil {
		logger.ErrorContext(r.Context(), "calendar build failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("week_count", len(calendar.Weeks)).InfoContext(r.Context(), "calendar built")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCalendarResponse(calendar))
}

func parseYearMonth(r *http.Request) (int, time.Month, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

type availabilityResponse struct {
	PossibleTimes  []int `json:"possibleTimes"`
	AvailableTimes []int `json:"availableTimes"`
}

type blockedDatesResponse struct {
	BlockedWeekDays []int `json:"blockedWeekDays"`
	BlockedDates    []int `json:"blockedDates"`
}

type calendarResponse struct {
	WeekdayHeaders []string           `json:"weekdayHeaders"`
	Weeks          [][]calendarDayDTO `json:"weeks"`
}

type calendarDayDTO struct {
	Date     string `json:"date"`
	Disabled bool   `json:"disabled"`
}

func toCalendarResponse(calendar application.MonthCalendar) calendarResponse {
	out := calendarResponse{
		WeekdayHeaders: calendar.WeekdayHeaders,
		Weeks:          make([][]calendarDayDTO, 0, len(calendar.Weeks)),
	}
	for _, week := range calendar.Weeks {
		row := make([]calendarDayDTO, 0, len(week))
		for _, day := range week {
			row = append(row, calendarDayDTO{
				Date:     day.Date.Format("2006-01-02"),
				Disabled: day.Disabled,
			})
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out
}
