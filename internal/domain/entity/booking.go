package entity

import (
	"fmt"
	"time"
)

// Payment statuses as reported by the gateway callback.
const (
	PaymentStatusUnpaid    = ""
	PaymentStatusSuccess   = "success"
	PaymentStatusSandbox   = "sandbox"
	PaymentStatusFailure   = "failure"
	PaymentStatusError     = "error"
	PaymentStatusReversed  = "reversed"
	PaymentStatus3DSVerify = "3ds_verify"
)

// Booking statuses set by the application, not the gateway.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusRejected  = "rejected"
)

// PaidEffect describes what a gateway status means for the paid flag.
type PaidEffect int

const (
	// PaidUnchanged leaves the paid flag as it is; only the status is recorded.
	PaidUnchanged PaidEffect = iota
	// PaidTrue marks the booking paid.
	PaidTrue
	// PaidFalse marks the booking unpaid.
	PaidFalse
)

var successStatuses = map[string]bool{
	PaymentStatusSuccess: true,
	PaymentStatusSandbox: true,
}

var failureStatuses = map[string]bool{
	PaymentStatusFailure:   true,
	PaymentStatusError:     true,
	PaymentStatusReversed:  true,
	PaymentStatus3DSVerify: true,
}

// ClassifyPaymentStatus maps a gateway status onto the paid flag. The same
// success set is used everywhere: the sandbox status counts as success.
func ClassifyPaymentStatus(status string) PaidEffect {
	switch {
	case successStatuses[status]:
		return PaidTrue
	case failureStatuses[status]:
		return PaidFalse
	default:
		return PaidUnchanged
	}
}

// IsSuccessStatus reports whether status belongs to the canonical success set.
func IsSuccessStatus(status string) bool { return successStatuses[status] }

// IsFailureStatus reports whether status belongs to the failure set.
func IsFailureStatus(status string) bool { return failureStatuses[status] }

// Booking is a scheduled patient-doctor consultation with its payment state.
// Scheduling fields (patient, doctor, date, slot) are owned by the booking
// flow; this service mutates only payment, status and meet-link fields.
type Booking struct {
	ID             string
	PatientID      string
	DoctorID       string
	BookingDate    string // 2006-01-02
	TimeSlot       string // 15:04, stored as UTC
	Amount         float64
	Currency       string
	Status         string
	PaymentStatus  string
	Paid           bool
	MeetLink       string
	GatewayPayload []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StartAtUTC combines the stored date and slot into the UTC instant the
// consultation starts at.
func (b *Booking) StartAtUTC() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", b.BookingDate+" "+b.TimeSlot, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking %s: bad date/slot %q %q: %w", b.ID, b.BookingDate, b.TimeSlot, err)
	}
	return t, nil
}
