// Package bookingflow coordinates the two-step booking interaction: a visitor
// first picks a date and hour, then confirms their contact details.
package bookingflow

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// State identifies the current step of the flow.
type State int

const (
	// SelectingDateTime waits for a date and hour slot to be chosen.
	SelectingDateTime State = iota
	// ConfirmingDetails waits for the visitor's details for the chosen slot.
	ConfirmingDetails
)

// ErrInvalidState is returned when an operation does not match the current step.
var ErrInvalidState = errors.New("bookingflow: operation not valid in current state")

// Details carries the visitor-provided fields submitted on confirmation.
type Details struct {
	Name  string
	Email string
	Notes string
}

// Creator submits a confirmed booking for the chosen slot.
type Creator interface {
	CreateBooking(ctx context.Context, slot time.Time, details Details) error
}

// Flow is the linear select-then-confirm state machine. It holds at most one
// pending slot and is not safe for concurrent use.
type Flow struct {
	creator Creator
	state   State
	slot    time.Time
}

// New returns a flow in the SelectingDateTime state.
func New(creator Creator) *Flow {
	return &Flow{creator: creator, state: SelectingDateTime}
}

// State reports the current step.
func (f *Flow) State() State {
	return f.state
}

// SelectedSlot returns the pending slot when the flow is awaiting confirmation.
func (f *Flow) SelectedSlot() (time.Time, bool) {
	if f.state != ConfirmingDetails {
		return time.Time{}, false
	}
	return f.slot, true
}

// SelectDateTime combines the chosen calendar date with the chosen hour,
// zeroing minutes and seconds, and advances to ConfirmingDetails.
func (f *Flow) SelectDateTime(date time.Time, hour int) error {
	if f.state != SelectingDateTime {
		return ErrInvalidState
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("bookingflow: hour %d out of range", hour)
	}

	f.slot = time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
	f.state = ConfirmingDetails
	return nil
}

// Cancel discards the pending slot and returns to date selection.
func (f *Flow) Cancel() {
	f.slot = time.Time{}
	f.state = SelectingDateTime
}

// Confirm submits the pending slot with the visitor's details. On success the
// flow resets for the next booking; on failure the error is returned verbatim
// and the flow stays in ConfirmingDetails so the visitor can resubmit.
func (f *Flow) Confirm(ctx context.Context, details Details) error {
	if f.state != ConfirmingDetails {
		return ErrInvalidState
	}
	if f.creator == nil {
		return fmt.Errorf("bookingflow: no booking creator configured")
	}

	if err := f.creator.CreateBooking(ctx, f.slot, details); err != nil {
		return err
	}

	f.Cancel()
	return nil
}
