package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/application"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
}

// BookingHandler serves the public booking endpoint of a user's page.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

// NewBookingHandler wires the booking endpoint.
func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

// Create books an hour slot on the named user's page.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := trimmedPathValue(r, "username")
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUsername)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "username", username, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingDate)
		return
	}

	logger := h.log(r.Context(), "Create", "username", username, "date", req.Date)

	booking, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Username: username,
		Input: application.BookingInput{
			Date:         date,
			Name:         req.Name,
			Email:        req.Email,
			Observations: req.Observations,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(booking)})
}

type bookingRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Observations string `json:"observations"`
	Date         string `json:"date"`
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type bookingDTO struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Observations *string `json:"observations,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

func toBookingDTO(booking application.Booking) bookingDTO {
	return bookingDTO{
		ID:           booking.ID,
		Date:         booking.Date.UTC().Format(time.RFC3339),
		Name:         booking.Name,
		Email:        booking.Email,
		Observations: booking.Observations,
		CreatedAt:    booking.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
