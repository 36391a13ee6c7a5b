package usecase

import (
	"context"
	"errors"
	"testing"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func testBooking() *entity.Booking {
	return &entity.Booking{
		ID:          "bk-1",
		PatientID:   "pat-1",
		DoctorID:    "doc-1",
		BookingDate: "2025-06-15",
		TimeSlot:    "10:00",
		Amount:      50,
		Currency:    "USD",
		Status:      entity.BookingStatusConfirmed,
	}
}

func TestApplySuccessMarksPaid(t *testing.T) {
	repo := newFakeBookingRepo(testBooking())
	updater := NewBookingUpdater(repo, logger.NewNop())

	result, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "success", []byte(`{"status":"success"}`))

	assert.NoError(t, err)
	assert.True(t, result.BecamePaid)
	assert.False(t, result.BecameFailed)

	stored := repo.bookings["bk-1"]
	assert.Equal(t, "success", stored.PaymentStatus)
	assert.True(t, stored.Paid)
	assert.JSONEq(t, `[{"status":"success"}]`, string(stored.GatewayPayload))
}

func TestApplySandboxCountsAsSuccess(t *testing.T) {
	repo := newFakeBookingRepo(testBooking())
	updater := NewBookingUpdater(repo, logger.NewNop())

	result, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "sandbox", []byte(`{"status":"sandbox"}`))

	assert.NoError(t, err)
	assert.True(t, result.BecamePaid)
	assert.True(t, repo.bookings["bk-1"].Paid)
}

func TestReapplyingTerminalStatusIsIdempotent(t *testing.T) {
	repo := newFakeBookingRepo(testBooking())
	updater := NewBookingUpdater(repo, logger.NewNop())
	payload := []byte(`{"status":"success"}`)

	first, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "success", payload)
	assert.NoError(t, err)
	assert.True(t, first.BecamePaid)
	snapshot := *repo.bookings["bk-1"]

	second, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "success", payload)
	assert.NoError(t, err)
	assert.False(t, second.BecamePaid, "duplicate delivery must not re-trigger notifications")
	assert.Equal(t, snapshot, *repo.bookings["bk-1"], "stored state must be identical after redelivery")
}

func TestFailureAfterSuccessDoesNotClearPaid(t *testing.T) {
	repo := newFakeBookingRepo(testBooking())
	updater := NewBookingUpdater(repo, logger.NewNop())

	_, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "success", []byte(`{"status":"success"}`))
	assert.NoError(t, err)

	result, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "failure", []byte(`{"status":"failure"}`))
	assert.NoError(t, err)
	assert.False(t, result.BecamePaid)
	assert.False(t, result.BecameFailed)

	stored := repo.bookings["bk-1"]
	assert.True(t, stored.Paid, "paid must survive a late failure callback")
	assert.Equal(t, "success", stored.PaymentStatus)
	// The late callback is still preserved in the payload history.
	assert.JSONEq(t, `[{"status":"success"},{"status":"failure"}]`, string(stored.GatewayPayload))
}

func TestFailureMarksUnpaid(t *testing.T) {
	repo := newFakeBookingRepo(testBooking())
	updater := NewBookingUpdater(repo, logger.NewNop())

	result, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "reversed", []byte(`{"status":"reversed"}`))

	assert.NoError(t, err)
	assert.True(t, result.BecameFailed)
	stored := repo.bookings["bk-1"]
	assert.False(t, stored.Paid)
	assert.Equal(t, "reversed", stored.PaymentStatus)
}

func TestUnknownStatusLeavesPaidUnchanged(t *testing.T) {
	repo := newFakeBookingRepo(testBooking())
	updater := NewBookingUpdater(repo, logger.NewNop())

	result, err := updater.ApplyGatewayStatus(context.Background(), "bk-1", "wait_accept", []byte(`{"status":"wait_accept"}`))

	assert.NoError(t, err)
	assert.False(t, result.BecamePaid)
	assert.False(t, result.BecameFailed)
	stored := repo.bookings["bk-1"]
	assert.Equal(t, "wait_accept", stored.PaymentStatus)
	assert.False(t, stored.Paid)
}

func TestUnknownBookingIsNotFound(t *testing.T) {
	repo := newFakeBookingRepo()
	updater := NewBookingUpdater(repo, logger.NewNop())

	_, err := updater.ApplyGatewayStatus(context.Background(), "missing", "success", nil)

	var appErr *apperrors.Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}
