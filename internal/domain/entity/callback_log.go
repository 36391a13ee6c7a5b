package entity

import "time"

// Callback verdicts.
const (
	CallbackAccepted = "accepted"
	CallbackRejected = "rejected"
)

// CallbackLog is an audit record of one inbound gateway callback, written
// whether or not the signature verified. The full decoded payload history for
// a booking lives here, alongside the copy on the booking row.
type CallbackLog struct {
	ID         string                 `bson:"_id,omitempty"`
	BookingID  string                 `bson:"bookingId,omitempty"`
	Status     string                 `bson:"status,omitempty"`
	Verdict    string                 `bson:"verdict"`
	Reason     string                 `bson:"reason,omitempty"`
	Data       string                 `bson:"data"` // raw base64 blob as received
	Signature  string                 `bson:"signature"`
	Decoded    map[string]interface{} `bson:"decoded,omitempty"`
	ReceivedAt time.Time              `bson:"receivedAt"`
}
