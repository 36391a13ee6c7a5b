package handler_test

import (
	"context"
	"errors"
	"sync"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/metrics"
)

var testMetricsOnce sync.Once
var testMetricsInstance *metrics.Metrics

// promauto registers on the global registry, so the test binary shares one
// metrics instance.
func testMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetricsInstance = metrics.NewMetrics("handler_test")
	})
	return testMetricsInstance
}

type memBookingRepo struct {
	bookings map[string]*entity.Booking
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking not found")
	}
	copied := *booking
	return &copied, nil
}

func (r *memBookingRepo) UpdatePayment(ctx context.Context, id string, update repository.PaymentUpdate) error {
	booking, ok := r.bookings[id]
	if !ok {
		return apperrors.NotFound("booking not found")
	}
	booking.PaymentStatus = update.PaymentStatus
	if update.Paid != nil {
		booking.Paid = *update.Paid
	}
	if update.GatewayPayload != nil {
		booking.GatewayPayload = update.GatewayPayload
	}
	return nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	booking, ok := r.bookings[id]
	if !ok {
		return apperrors.NotFound("booking not found")
	}
	booking.Status = status
	return nil
}

func (r *memBookingRepo) UpdateMeetLink(ctx context.Context, id string, meetLink string) error {
	booking, ok := r.bookings[id]
	if !ok {
		return apperrors.NotFound("booking not found")
	}
	booking.MeetLink = meetLink
	return nil
}

type memPartyRepo struct {
	patients       map[string]*entity.PartyProfile
	doctors        map[string]*entity.PartyProfile
	doctorTimezone map[string]string
}

func (r *memPartyRepo) GetPatient(ctx context.Context, id string) (*entity.PartyProfile, error) {
	profile, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient not found")
	}
	copied := *profile
	return &copied, nil
}

func (r *memPartyRepo) GetDoctor(ctx context.Context, id string) (*entity.PartyProfile, error) {
	profile, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor not found")
	}
	copied := *profile
	return &copied, nil
}

func (r *memPartyRepo) GetDoctorTimezone(ctx context.Context, id string) (string, error) {
	tz, ok := r.doctorTimezone[id]
	if !ok {
		return "", apperrors.NotFound("settings not found")
	}
	return tz, nil
}

func (r *memPartyRepo) ListPatients(ctx context.Context) ([]*entity.PartyProfile, error) {
	profiles := make([]*entity.PartyProfile, 0, len(r.patients))
	for _, p := range r.patients {
		copied := *p
		profiles = append(profiles, &copied)
	}
	return profiles, nil
}

func (r *memPartyRepo) ListDoctors(ctx context.Context) ([]*entity.PartyProfile, error) {
	profiles := make([]*entity.PartyProfile, 0, len(r.doctors))
	for _, d := range r.doctors {
		copied := *d
		profiles = append(profiles, &copied)
	}
	return profiles, nil
}

type memNotificationRepo struct {
	saved []*entity.NotificationRecord
}

func (r *memNotificationRepo) Save(ctx context.Context, record *entity.NotificationRecord) error {
	r.saved = append(r.saved, record)
	return nil
}

func (r *memNotificationRepo) ListByRecipient(ctx context.Context, kind entity.PartyKind, recipientID string, limit int) ([]*entity.NotificationRecord, error) {
	var records []*entity.NotificationRecord
	for _, record := range r.saved {
		if record.Recipient == kind && record.RecipientID == recipientID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, kind entity.PartyKind, id string) error {
	return nil
}

type memPushSender struct {
	sent []*entity.PushMessage
}

func (s *memPushSender) ValidToken(token string) bool {
	return len(token) > 0
}

func (s *memPushSender) Send(ctx context.Context, messages []*entity.PushMessage) []entity.PushResult {
	results := make([]entity.PushResult, 0, len(messages))
	for _, msg := range messages {
		s.sent = append(s.sent, msg)
		results = append(results, entity.PushResult{Token: msg.Token, OK: true})
	}
	return results
}

type memCallbackLogRepo struct {
	saved []*entity.CallbackLog
}

func (r *memCallbackLogRepo) Save(ctx context.Context, log *entity.CallbackLog) error {
	r.saved = append(r.saved, log)
	return nil
}

func (r *memCallbackLogRepo) FindByBookingID(ctx context.Context, bookingID string, limit int) ([]*entity.CallbackLog, error) {
	return nil, errors.New("not implemented")
}
