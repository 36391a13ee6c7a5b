package usecase

import (
	"context"
	"errors"
	"sync"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/metrics"
)

func notFoundErr() error { return apperrors.NotFound("not found") }

func assertErr(msg string) error { return errors.New(msg) }

// One metrics instance per test binary: promauto registers on the global
// registry and re-registration panics.
var testMetricsOnce sync.Once
var testMetricsInstance *metrics.Metrics

func testMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetricsInstance = metrics.NewMetrics("usecase_test")
	})
	return testMetricsInstance
}

type fakeBookingRepo struct {
	bookings   map[string]*entity.Booking
	failUpdate error
}

func newFakeBookingRepo(bookings ...*entity.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[string]*entity.Booking)}
	for _, b := range bookings {
		copied := *b
		repo.bookings[b.ID] = &copied
	}
	return repo
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, notFoundErr()
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) UpdatePayment(ctx context.Context, id string, update repository.PaymentUpdate) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	booking, ok := r.bookings[id]
	if !ok {
		return notFoundErr()
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

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	booking, ok := r.bookings[id]
	if !ok {
		return notFoundErr()
	}
	booking.Status = status
	return nil
}

func (r *fakeBookingRepo) UpdateMeetLink(ctx context.Context, id string, meetLink string) error {
	booking, ok := r.bookings[id]
	if !ok {
		return notFoundErr()
	}
	booking.MeetLink = meetLink
	return nil
}

type fakePartyRepo struct {
	patients       map[string]*entity.PartyProfile
	doctors        map[string]*entity.PartyProfile
	doctorTimezone map[string]string
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{
		patients:       make(map[string]*entity.PartyProfile),
		doctors:        make(map[string]*entity.PartyProfile),
		doctorTimezone: make(map[string]string),
	}
}

func (r *fakePartyRepo) GetPatient(ctx context.Context, id string) (*entity.PartyProfile, error) {
	profile, ok := r.patients[id]
	if !ok {
		return nil, notFoundErr()
	}
	copied := *profile
	return &copied, nil
}

func (r *fakePartyRepo) GetDoctor(ctx context.Context, id string) (*entity.PartyProfile, error) {
	profile, ok := r.doctors[id]
	if !ok {
		return nil, notFoundErr()
	}
	copied := *profile
	return &copied, nil
}

func (r *fakePartyRepo) GetDoctorTimezone(ctx context.Context, id string) (string, error) {
	tz, ok := r.doctorTimezone[id]
	if !ok {
		return "", notFoundErr()
	}
	return tz, nil
}

func (r *fakePartyRepo) ListPatients(ctx context.Context) ([]*entity.PartyProfile, error) {
	profiles := make([]*entity.PartyProfile, 0, len(r.patients))
	for _, p := range r.patients {
		copied := *p
		profiles = append(profiles, &copied)
	}
	return profiles, nil
}

func (r *fakePartyRepo) ListDoctors(ctx context.Context) ([]*entity.PartyProfile, error) {
	profiles := make([]*entity.PartyProfile, 0, len(r.doctors))
	for _, d := range r.doctors {
		copied := *d
		profiles = append(profiles, &copied)
	}
	return profiles, nil
}

type fakeNotificationRepo struct {
	saved    []*entity.NotificationRecord
	failFor  map[string]error // keyed by recipient id
	failNext error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{failFor: make(map[string]error)}
}

func (r *fakeNotificationRepo) Save(ctx context.Context, record *entity.NotificationRecord) error {
	if err := r.failFor[record.RecipientID]; err != nil {
		return err
	}
	if r.failNext != nil {
		return r.failNext
	}
	r.saved = append(r.saved, record)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(ctx context.Context, kind entity.PartyKind, recipientID string, limit int) ([]*entity.NotificationRecord, error) {
	var records []*entity.NotificationRecord
	for _, record := range r.saved {
		if record.Recipient == kind && record.RecipientID == recipientID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, kind entity.PartyKind, id string) error {
	return nil
}

type fakePushSender struct {
	sent      []*entity.PushMessage
	failToken string
}

func (s *fakePushSender) ValidToken(token string) bool {
	return len(token) > 0 && token != "not-a-token"
}

func (s *fakePushSender) Send(ctx context.Context, messages []*entity.PushMessage) []entity.PushResult {
	results := make([]entity.PushResult, 0, len(messages))
	for _, msg := range messages {
		if msg.Token == s.failToken {
			results = append(results, entity.PushResult{Token: msg.Token, Err: assertErr("push rejected")})
			continue
		}
		s.sent = append(s.sent, msg)
		results = append(results, entity.PushResult{Token: msg.Token, OK: true})
	}
	return results
}

type fakeCallbackLogRepo struct {
	saved []*entity.CallbackLog
}

func (r *fakeCallbackLogRepo) Save(ctx context.Context, log *entity.CallbackLog) error {
	r.saved = append(r.saved, log)
	return nil
}

func (r *fakeCallbackLogRepo) FindByBookingID(ctx context.Context, bookingID string, limit int) ([]*entity.CallbackLog, error) {
	var logs []*entity.CallbackLog
	for _, log := range r.saved {
		if log.BookingID == bookingID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}
