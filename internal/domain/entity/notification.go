package entity

import "time"

// Notification event kinds. These double as the type tag on stored records.
type EventKind string

const (
	EventPaymentSuccess   EventKind = "payment_success"
	EventPaymentFailure   EventKind = "payment_failure"
	EventBookingConfirmed EventKind = "booking_confirmed"
	EventBookingRejected  EventKind = "booking_rejected"
	EventMeetLinkUpdated  EventKind = "meet_link_updated"
	EventNewBookingDoctor EventKind = "new_booking_doctor"
	EventAdminBroadcast   EventKind = "admin_broadcast"
)

// NotificationRecord is the persisted copy of a dispatched (or attempted)
// notification. It is written exactly once per dispatch decision, whether or
// not push delivery succeeds afterwards.
type NotificationRecord struct {
	ID          string
	Recipient   PartyKind
	RecipientID string
	BookingID   string
	Title       string
	Body        string
	Type        EventKind
	Data        map[string]string
	Read        bool
	CreatedAt   time.Time
}

// PushMessage is a single device delivery request handed to the push
// capability.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// PushResult is the per-recipient outcome of a delivery attempt.
type PushResult struct {
	Token string
	OK    bool
	Err   error
}
