package usecase

import (
	"context"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/logger"
	"telecare-notifier/pkg/metrics"
	"telecare-notifier/templates"
)

// Target is one recipient of a dispatch: who to notify, which event, and the
// event-specific message parameters. The recipient's own timezone and
// language are filled in from the resolved profile.
type Target struct {
	Kind   entity.PartyKind
	ID     string
	Event  entity.EventKind
	Params templates.MessageParams
	Data   map[string]string
}

// Dispatcher fans one event out to its interested parties: per recipient it
// builds a localized message, persists a notification record, and collects a
// push request when a validly-formatted address exists. Push delivery runs
// only after every record is persisted, and a failed delivery never fails the
// dispatch.
type Dispatcher struct {
	resolver      *PartyResolver
	notifications repository.NotificationRepository
	push          repository.PushSender
	metrics       *metrics.Metrics
	logger        logger.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(
	resolver *PartyResolver,
	notifications repository.NotificationRepository,
	push repository.PushSender,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		resolver:      resolver,
		notifications: notifications,
		push:          push,
		metrics:       metrics,
		logger:        logger,
	}
}

// Dispatch notifies every target of one booking event.
func (d *Dispatcher) Dispatch(ctx context.Context, bookingID string, targets []Target) error {
	pushMessages := make([]*entity.PushMessage, 0, len(targets))
	persisted := 0

	for _, target := range targets {
		profile := d.resolver.Resolve(ctx, target.Kind, target.ID)

		params := target.Params
		params.Timezone = profile.Timezone
		title, body := templates.Build(target.Event, profile.Language, params)

		record := &entity.NotificationRecord{
			Recipient:   target.Kind,
			RecipientID: target.ID,
			BookingID:   bookingID,
			Title:       title,
			Body:        body,
			Type:        target.Event,
			Data:        target.Data,
		}

		if err := d.notifications.Save(ctx, record); err != nil {
			// Isolated per recipient: the other party still gets theirs.
			d.logger.Error("Failed to persist notification record",
				"recipient", target.Kind, "recipientId", target.ID, "error", err)
			d.metrics.ErrorsCount.WithLabelValues("notification_save").Inc()
			continue
		}
		persisted++
		d.metrics.NotificationsPersisted.Inc()

		if profile.PushToken == "" {
			continue
		}
		if !d.push.ValidToken(profile.PushToken) {
			d.logger.Warn("Skipping malformed push token", "recipient", target.Kind, "recipientId", target.ID)
			continue
		}
		pushMessages = append(pushMessages, &entity.PushMessage{
			Token: profile.PushToken,
			Title: title,
			Body:  body,
			Data:  target.Data,
		})
	}

	if len(targets) > 0 && persisted == 0 {
		return apperrors.Dependency("failed to persist any notification record", nil)
	}

	d.deliver(ctx, pushMessages)
	return nil
}

// DispatchDirect persists and delivers a pre-built (title, body) pair to
// already-resolved profiles, used by the admin broadcast where no template
// or booking applies.
func (d *Dispatcher) DispatchDirect(ctx context.Context, profiles []*entity.PartyProfile, title, body string, data map[string]string) (int, error) {
	pushMessages := make([]*entity.PushMessage, 0, len(profiles))
	persisted := 0

	for _, profile := range profiles {
		record := &entity.NotificationRecord{
			Recipient:   profile.Kind,
			RecipientID: profile.ID,
			Title:       title,
			Body:        body,
			Type:        entity.EventAdminBroadcast,
			Data:        data,
		}

		if err := d.notifications.Save(ctx, record); err != nil {
			d.logger.Error("Failed to persist broadcast record",
				"recipient", profile.Kind, "recipientId", profile.ID, "error", err)
			d.metrics.ErrorsCount.WithLabelValues("notification_save").Inc()
			continue
		}
		persisted++
		d.metrics.NotificationsPersisted.Inc()

		if profile.PushToken == "" || !d.push.ValidToken(profile.PushToken) {
			continue
		}
		pushMessages = append(pushMessages, &entity.PushMessage{
			Token: profile.PushToken,
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	if len(profiles) > 0 && persisted == 0 {
		return 0, apperrors.Dependency("failed to persist any broadcast record", nil)
	}

	d.deliver(ctx, pushMessages)
	return persisted, nil
}

// deliver pushes best-effort: failures are logged and counted, never
// surfaced as a request failure.
func (d *Dispatcher) deliver(ctx context.Context, messages []*entity.PushMessage) {
	if len(messages) == 0 {
		return
	}

	for _, result := range d.push.Send(ctx, messages) {
		if result.OK {
			d.metrics.PushMessagesSent.Inc()
			continue
		}
		d.logger.Error("Push delivery failed", "error", apperrors.Delivery("push delivery failed", result.Err))
		d.metrics.ErrorsCount.WithLabelValues("push_delivery").Inc()
	}
}
