package usecase

import (
	"context"
	"time"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/logger"
	"telecare-notifier/pkg/metrics"
	"telecare-notifier/templates"
)

// EventProcessor handles application-originated events: booking status
// changes, meeting-link updates and admin broadcasts.
type EventProcessor struct {
	bookings   repository.BookingRepository
	parties    repository.PartyRepository
	resolver   *PartyResolver
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(
	bookings repository.BookingRepository,
	parties repository.PartyRepository,
	resolver *PartyResolver,
	dispatcher *Dispatcher,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *EventProcessor {
	return &EventProcessor{
		bookings:   bookings,
		parties:    parties,
		resolver:   resolver,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// ProcessBookingStatus records a confirmed/rejected status and notifies the
// interested parties. Confirmation notifies both sides; rejection notifies
// the patient only.
func (p *EventProcessor) ProcessBookingStatus(ctx context.Context, event *entity.BookingStatusEvent) error {
	body := event.Booking

	if _, err := p.bookings.GetByID(ctx, body.ID); err != nil {
		return err
	}
	if err := p.bookings.UpdateStatus(ctx, body.ID, body.Status); err != nil {
		return err
	}

	patient := p.resolver.Resolve(ctx, entity.PartyPatient, body.PatientID)
	doctorName := event.DoctorName
	if doctorName == "" {
		doctorName = p.resolver.Resolve(ctx, entity.PartyDoctor, body.DoctorID).DisplayName
	}

	startAt := parseStartAt(body.BookingDate, body.TimeSlot)
	amount := 0.0
	if body.Amount != nil {
		amount = *body.Amount
	}
	data := map[string]string{
		"bookingId": body.ID,
		"status":    body.Status,
	}

	patientParams := templates.MessageParams{
		CounterpartName: doctorName,
		StartAtUTC:      startAt,
		Amount:          amount,
		Currency:        body.Currency,
		Status:          body.Status,
	}

	var targets []Target
	if body.Status == entity.BookingStatusConfirmed {
		doctorParams := patientParams
		doctorParams.CounterpartName = patient.DisplayName
		targets = []Target{
			{Kind: entity.PartyPatient, ID: body.PatientID, Event: entity.EventBookingConfirmed, Params: patientParams, Data: data},
			{Kind: entity.PartyDoctor, ID: body.DoctorID, Event: entity.EventNewBookingDoctor, Params: doctorParams, Data: data},
		}
	} else {
		targets = []Target{
			{Kind: entity.PartyPatient, ID: body.PatientID, Event: entity.EventBookingRejected, Params: patientParams, Data: data},
		}
	}

	return p.dispatcher.Dispatch(ctx, body.ID, targets)
}

// ProcessMeetLink records a new meeting link and notifies the patient. A
// patient without a push address still gets an in-app record.
func (p *EventProcessor) ProcessMeetLink(ctx context.Context, event *entity.MeetLinkEvent) error {
	if _, err := p.bookings.GetByID(ctx, event.BookingID); err != nil {
		return err
	}
	if err := p.bookings.UpdateMeetLink(ctx, event.BookingID, event.MeetLink); err != nil {
		return err
	}

	doctorName := event.DoctorName
	if doctorName == "" {
		booking, err := p.bookings.GetByID(ctx, event.BookingID)
		if err == nil {
			doctorName = p.resolver.Resolve(ctx, entity.PartyDoctor, booking.DoctorID).DisplayName
		}
	}

	target := Target{
		Kind:  entity.PartyPatient,
		ID:    event.PatientID,
		Event: entity.EventMeetLinkUpdated,
		Params: templates.MessageParams{
			CounterpartName: doctorName,
			StartAtUTC:      parseStartAt(event.BookingDate, event.TimeSlot),
			MeetLink:        event.MeetLink,
		},
		Data: map[string]string{
			"bookingId": event.BookingID,
			"meetLink":  event.MeetLink,
		},
	}

	return p.dispatcher.Dispatch(ctx, event.BookingID, []Target{target})
}

// ProcessBroadcast sends an admin message to the selected recipient group
// and returns how many records were persisted.
func (p *EventProcessor) ProcessBroadcast(ctx context.Context, event *entity.BroadcastEvent) (int, error) {
	var profiles []*entity.PartyProfile

	switch event.RecipientType {
	case "all_doctors":
		doctors, err := p.parties.ListDoctors(ctx)
		if err != nil {
			return 0, err
		}
		profiles = doctors
	case "all_patients":
		patients, err := p.parties.ListPatients(ctx)
		if err != nil {
			return 0, err
		}
		profiles = patients
	case "all_users":
		patients, err := p.parties.ListPatients(ctx)
		if err != nil {
			return 0, err
		}
		doctors, err := p.parties.ListDoctors(ctx)
		if err != nil {
			return 0, err
		}
		profiles = append(patients, doctors...)
	case "specific_doctor":
		profiles = []*entity.PartyProfile{p.resolver.Resolve(ctx, entity.PartyDoctor, event.SpecificID)}
	case "specific_patient":
		profiles = []*entity.PartyProfile{p.resolver.Resolve(ctx, entity.PartyPatient, event.SpecificID)}
	}

	count, err := p.dispatcher.DispatchDirect(ctx, profiles, event.Title, event.Body, event.Data)
	if err != nil {
		return 0, err
	}

	p.logger.Info("Broadcast dispatched", "recipientType", event.RecipientType, "recipients", count)
	return count, nil
}

// parseStartAt combines the event's date and slot into a UTC instant; a
// malformed pair degrades to the current time rather than failing the event.
func parseStartAt(date, slot string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+slot, time.UTC)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
