package entity

// Inbound event payloads. Validation tags are enforced by the handlers before
// any business logic runs; a request failing them is answered with a 400
// listing every invalid field.

// BookingStatusEvent announces a confirmed or rejected booking.
type BookingStatusEvent struct {
	Booking    BookingStatusBody `json:"booking" validate:"required"`
	DoctorName string            `json:"doctor_name"`
}

type BookingStatusBody struct {
	ID          string   `json:"id" validate:"required"`
	PatientID   string   `json:"patient_id" validate:"required"`
	DoctorID    string   `json:"doctor_id" validate:"required"`
	Status      string   `json:"status" validate:"required,oneof=confirmed rejected"`
	BookingDate string   `json:"booking_date" validate:"required"`
	TimeSlot    string   `json:"booking_time_slot" validate:"required"`
	Amount      *float64 `json:"amount" validate:"required"`
	Currency    string   `json:"currency"`
}

// MeetLinkEvent announces an updated meeting link for a booking.
type MeetLinkEvent struct {
	BookingID   string `json:"booking_id" validate:"required"`
	MeetLink    string `json:"meet_link" validate:"required,url"`
	PatientID   string `json:"patient_id" validate:"required"`
	DoctorName  string `json:"doctor_name"`
	BookingDate string `json:"booking_date" validate:"required"`
	TimeSlot    string `json:"booking_time_slot" validate:"required"`
}

// BroadcastEvent is an admin-initiated notification to a recipient group.
type BroadcastEvent struct {
	Title         string            `json:"title" validate:"required"`
	Body          string            `json:"body" validate:"required"`
	RecipientType string            `json:"recipientType" validate:"required,oneof=all_doctors all_patients all_users specific_doctor specific_patient"`
	SpecificID    string            `json:"specificId" validate:"required_if=RecipientType specific_doctor,required_if=RecipientType specific_patient"`
	Data          map[string]string `json:"data"`
}
