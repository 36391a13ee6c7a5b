package usecase

import (
	"bytes"
	"context"
	"encoding/json"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/logger"
)

// GatewayStatusResult describes what a verified callback did to the booking.
type GatewayStatusResult struct {
	Booking *entity.Booking
	// BecamePaid is true only on the transition into the success set, so a
	// redelivered success callback triggers no second notification.
	BecamePaid bool
	// BecameFailed is true only on the transition into the failure set.
	BecameFailed bool
}

// BookingUpdater applies verified gateway statuses to a booking's payment
// fields. Scheduling fields are never touched and reapplying the same
// terminal status with the same payload leaves the stored state identical.
type BookingUpdater struct {
	bookings repository.BookingRepository
	logger   logger.Logger
}

// NewBookingUpdater creates a new booking updater
func NewBookingUpdater(bookings repository.BookingRepository, logger logger.Logger) *BookingUpdater {
	return &BookingUpdater{
		bookings: bookings,
		logger:   logger,
	}
}

// ApplyGatewayStatus classifies and records one gateway status for a booking.
// A booking already in the success set refuses a downgrade to a failure
// status: the callback is appended to the payload history and nothing else
// changes.
func (u *BookingUpdater) ApplyGatewayStatus(ctx context.Context, bookingID, status string, rawPayload []byte) (*GatewayStatusResult, error) {
	booking, err := u.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	effect := entity.ClassifyPaymentStatus(status)
	alreadyPaid := entity.IsSuccessStatus(booking.PaymentStatus)

	if alreadyPaid && effect == entity.PaidFalse {
		u.logger.Warn("Ignoring failure status for already-paid booking",
			"bookingId", bookingID,
			"currentStatus", booking.PaymentStatus,
			"incomingStatus", status)

		history, changed := appendPayload(booking.GatewayPayload, rawPayload)
		if !changed {
			return &GatewayStatusResult{Booking: booking}, nil
		}
		update := repository.PaymentUpdate{
			PaymentStatus:  booking.PaymentStatus,
			GatewayPayload: history,
		}
		if err := u.bookings.UpdatePayment(ctx, bookingID, update); err != nil {
			return nil, err
		}
		booking.GatewayPayload = history
		return &GatewayStatusResult{Booking: booking}, nil
	}

	history, historyChanged := appendPayload(booking.GatewayPayload, rawPayload)
	update := repository.PaymentUpdate{PaymentStatus: status}
	if historyChanged {
		update.GatewayPayload = history
	}

	paid := booking.Paid
	switch effect {
	case entity.PaidTrue:
		paid = true
		update.Paid = &paid
	case entity.PaidFalse:
		paid = false
		update.Paid = &paid
	}

	// Same terminal status, same payload, same paid flag: nothing to write.
	if booking.PaymentStatus == status && booking.Paid == paid && !historyChanged {
		return &GatewayStatusResult{Booking: booking}, nil
	}

	if err := u.bookings.UpdatePayment(ctx, bookingID, update); err != nil {
		return nil, err
	}

	result := &GatewayStatusResult{
		BecamePaid:   effect == entity.PaidTrue && !booking.Paid,
		BecameFailed: effect == entity.PaidFalse && !entity.IsFailureStatus(booking.PaymentStatus),
	}

	booking.PaymentStatus = status
	booking.Paid = paid
	booking.GatewayPayload = history
	result.Booking = booking

	return result, nil
}

// appendPayload keeps the booking's raw-payload field as a history of every
// distinct callback payload, newest last. Re-appending the latest payload is
// a no-op.
func appendPayload(existing, raw []byte) ([]byte, bool) {
	if len(raw) == 0 {
		return existing, false
	}

	var history []json.RawMessage
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &history); err != nil {
			// Legacy single-object payloads become the first history entry.
			history = []json.RawMessage{json.RawMessage(existing)}
		}
	}

	if len(history) > 0 && bytes.Equal(history[len(history)-1], raw) {
		return existing, false
	}

	history = append(history, json.RawMessage(raw))
	merged, err := json.Marshal(history)
	if err != nil {
		return existing, false
	}
	return merged, true
}
