package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/liqpay"
	"telecare-notifier/pkg/logger"
	"telecare-notifier/pkg/metrics"
	"telecare-notifier/templates"
)

// CallbackResult is what the webhook handler reports back to the gateway.
type CallbackResult struct {
	PaymentStatus string
	Paid          bool
}

// PaymentProcessor handles a signed gateway callback end to end: verify,
// decode, record the status on the booking, audit, then fan out
// notifications for notify-worthy transitions.
type PaymentProcessor struct {
	privateKey   string
	updater      *BookingUpdater
	resolver     *PartyResolver
	dispatcher   *Dispatcher
	callbackLogs repository.CallbackLogRepository
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewPaymentProcessor creates a new payment callback processor
func NewPaymentProcessor(
	privateKey string,
	updater *BookingUpdater,
	resolver *PartyResolver,
	dispatcher *Dispatcher,
	callbackLogs repository.CallbackLogRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *PaymentProcessor {
	return &PaymentProcessor{
		privateKey:   privateKey,
		updater:      updater,
		resolver:     resolver,
		dispatcher:   dispatcher,
		callbackLogs: callbackLogs,
		metrics:      metrics,
		logger:       logger,
	}
}

// ProcessCallback verifies and applies one gateway callback. Nothing is
// mutated before the signature is accepted.
func (p *PaymentProcessor) ProcessCallback(ctx context.Context, data, signature string) (*CallbackResult, error) {
	if err := liqpay.Verify(p.privateKey, data, signature); err != nil {
		if errors.Is(err, liqpay.ErrBadSignature) {
			p.logger.Warn("Rejected callback with invalid signature, possible attack", "error", err)
			p.audit(ctx, &entity.CallbackLog{
				Verdict:   entity.CallbackRejected,
				Reason:    "signature mismatch",
				Data:      data,
				Signature: signature,
			})
			return nil, apperrors.Auth("invalid signature")
		}
		return nil, apperrors.Validation("missing data or signature")
	}

	callback, err := liqpay.DecodeCallback(data)
	if err != nil {
		p.logger.Warn("Failed to decode verified callback", "error", err)
		return nil, apperrors.Validation("malformed callback data")
	}

	result, err := p.updater.ApplyGatewayStatus(ctx, callback.OrderID, callback.Status, callback.Raw)

	log := &entity.CallbackLog{
		BookingID: callback.OrderID,
		Status:    callback.Status,
		Verdict:   entity.CallbackAccepted,
		Data:      data,
		Signature: signature,
	}
	json.Unmarshal(callback.Raw, &log.Decoded)
	if err != nil {
		log.Reason = err.Error()
	}
	p.audit(ctx, log)

	if err != nil {
		return nil, err
	}

	p.metrics.CallbacksProcessed.Inc()
	p.logger.Info("Gateway callback applied",
		"bookingId", callback.OrderID,
		"status", callback.Status,
		"paid", result.Booking.Paid)

	p.notifyPaymentTransition(ctx, callback, result)

	return &CallbackResult{
		PaymentStatus: callback.Status,
		Paid:          result.Booking.Paid,
	}, nil
}

func (p *PaymentProcessor) notifyPaymentTransition(ctx context.Context, callback *liqpay.Callback, result *GatewayStatusResult) {
	if !result.BecamePaid && !result.BecameFailed {
		return
	}

	booking := result.Booking
	startAt, err := booking.StartAtUTC()
	if err != nil {
		p.logger.Warn("Booking has unparseable schedule, using stored update time", "bookingId", booking.ID, "error", err)
		startAt = booking.UpdatedAt.UTC()
	}

	amount, currency := callback.Amount, callback.Currency
	if amount == 0 {
		amount = booking.Amount
	}
	if currency == "" {
		currency = booking.Currency
	}

	patient := p.resolver.Resolve(ctx, entity.PartyPatient, booking.PatientID)
	doctor := p.resolver.Resolve(ctx, entity.PartyDoctor, booking.DoctorID)

	params := templates.MessageParams{
		StartAtUTC: startAt,
		Amount:     amount,
		Currency:   currency,
		Status:     callback.Status,
	}
	data := map[string]string{
		"bookingId":     booking.ID,
		"paymentStatus": callback.Status,
	}

	var targets []Target
	if result.BecamePaid {
		patientParams := params
		patientParams.CounterpartName = doctor.DisplayName
		doctorParams := params
		doctorParams.CounterpartName = patient.DisplayName
		targets = []Target{
			{Kind: entity.PartyPatient, ID: booking.PatientID, Event: entity.EventPaymentSuccess, Params: patientParams, Data: data},
			{Kind: entity.PartyDoctor, ID: booking.DoctorID, Event: entity.EventPaymentSuccess, Params: doctorParams, Data: data},
		}
	} else {
		patientParams := params
		patientParams.CounterpartName = doctor.DisplayName
		targets = []Target{
			{Kind: entity.PartyPatient, ID: booking.PatientID, Event: entity.EventPaymentFailure, Params: patientParams, Data: data},
		}
	}

	if err := p.dispatcher.Dispatch(ctx, booking.ID, targets); err != nil {
		// Booking state is already committed; notification persistence
		// problems are logged, the gateway still gets its acknowledgment.
		p.logger.Error("Notification dispatch failed after state commit", "bookingId", booking.ID, "error", err)
		p.metrics.ErrorsCount.WithLabelValues("dispatch").Inc()
	}
}

// audit is best-effort: a failed audit write never fails the callback.
func (p *PaymentProcessor) audit(ctx context.Context, log *entity.CallbackLog) {
	log.ReceivedAt = time.Now().UTC()
	if err := p.callbackLogs.Save(ctx, log); err != nil {
		p.logger.Error("Failed to write callback audit record", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("callback_audit").Inc()
	}
}
