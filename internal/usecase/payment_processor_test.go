package usecase

import (
	"context"
	"encoding/base64"
	"testing"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/liqpay"
	"telecare-notifier/pkg/logger"

	"github.com/stretchr/testify/assert"
)

const testPrivateKey = "sandbox_private_key"

func processorFixture() (*PaymentProcessor, *fakeBookingRepo, *fakeNotificationRepo, *fakePushSender, *fakeCallbackLogRepo) {
	bookings := newFakeBookingRepo(testBooking())
	parties := newFakePartyRepo()
	parties.patients["pat-1"] = &entity.PartyProfile{
		Kind: entity.PartyPatient, ID: "pat-1", DisplayName: "Ivan Petrenko",
		PushToken: "ExponentPushToken[pat]", Language: "en", Timezone: "Europe/Kyiv",
	}
	parties.doctors["doc-1"] = &entity.PartyProfile{
		Kind: entity.PartyDoctor, ID: "doc-1", DisplayName: "Dr. Smith",
		PushToken: "ExponentPushToken[doc]", Language: "en",
	}
	parties.doctorTimezone["doc-1"] = "America/New_York"

	notifications := newFakeNotificationRepo()
	push := &fakePushSender{}
	callbackLogs := &fakeCallbackLogRepo{}

	log := logger.NewNop()
	resolver := NewPartyResolver(parties, log)
	updater := NewBookingUpdater(bookings, log)
	dispatcher := NewDispatcher(resolver, notifications, push, testMetrics(), log)
	processor := NewPaymentProcessor(testPrivateKey, updater, resolver, dispatcher, callbackLogs, testMetrics(), log)

	return processor, bookings, notifications, push, callbackLogs
}

func encodeCallback(t *testing.T, payload string) (string, string) {
	t.Helper()
	data := base64.StdEncoding.EncodeToString([]byte(payload))
	return data, liqpay.Sign(testPrivateKey, data)
}

func TestProcessCallbackSuccessScenario(t *testing.T) {
	processor, bookings, notifications, push, callbackLogs := processorFixture()
	data, signature := encodeCallback(t, `{"order_id":"bk-1","status":"success","amount":50,"currency":"USD"}`)

	result, err := processor.ProcessCallback(context.Background(), data, signature)

	assert.NoError(t, err)
	assert.Equal(t, "success", result.PaymentStatus)
	assert.True(t, result.Paid)

	stored := bookings.bookings["bk-1"]
	assert.Equal(t, "success", stored.PaymentStatus)
	assert.True(t, stored.Paid)

	// One notification per party, each with the confirmed-payment title.
	assert.Len(t, notifications.saved, 2)
	for _, record := range notifications.saved {
		assert.Equal(t, entity.EventPaymentSuccess, record.Type)
		assert.Equal(t, "Payment Confirmed!", record.Title)
		assert.Contains(t, record.Body, "50 USD")
	}
	assert.Len(t, push.sent, 2)
	// Different timezones yield different body times for the same instant.
	assert.NotEqual(t, push.sent[0].Body, push.sent[1].Body)

	assert.Len(t, callbackLogs.saved, 1)
	assert.Equal(t, entity.CallbackAccepted, callbackLogs.saved[0].Verdict)
}

func TestProcessCallbackDuplicateSendsNoSecondNotification(t *testing.T) {
	processor, _, notifications, _, _ := processorFixture()
	data, signature := encodeCallback(t, `{"order_id":"bk-1","status":"success","amount":50,"currency":"USD"}`)

	_, err := processor.ProcessCallback(context.Background(), data, signature)
	assert.NoError(t, err)
	_, err = processor.ProcessCallback(context.Background(), data, signature)
	assert.NoError(t, err)

	assert.Len(t, notifications.saved, 2, "redelivered webhook must not duplicate notifications")
}

func TestProcessCallbackTamperedSignature(t *testing.T) {
	processor, bookings, notifications, _, callbackLogs := processorFixture()
	data, _ := encodeCallback(t, `{"order_id":"bk-1","status":"success"}`)

	_, err := processor.ProcessCallback(context.Background(), data, "dGFtcGVyZWQ=")

	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindAuth, appErr.Kind)

	stored := bookings.bookings["bk-1"]
	assert.Empty(t, stored.PaymentStatus, "no state may change on a rejected signature")
	assert.False(t, stored.Paid)
	assert.Empty(t, notifications.saved)

	assert.Len(t, callbackLogs.saved, 1)
	assert.Equal(t, entity.CallbackRejected, callbackLogs.saved[0].Verdict)
}

func TestProcessCallbackMissingFields(t *testing.T) {
	processor, _, _, _, _ := processorFixture()

	_, err := processor.ProcessCallback(context.Background(), "", "")

	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
}

func TestProcessCallbackUnknownBooking(t *testing.T) {
	processor, _, _, _, _ := processorFixture()
	data, signature := encodeCallback(t, `{"order_id":"missing","status":"success"}`)

	_, err := processor.ProcessCallback(context.Background(), data, signature)

	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
}

func TestProcessCallbackFailureNotifiesPatientOnly(t *testing.T) {
	processor, bookings, notifications, _, _ := processorFixture()
	data, signature := encodeCallback(t, `{"order_id":"bk-1","status":"failure","err_code":"limit"}`)

	result, err := processor.ProcessCallback(context.Background(), data, signature)

	assert.NoError(t, err)
	assert.False(t, result.Paid)
	assert.False(t, bookings.bookings["bk-1"].Paid)
	assert.Len(t, notifications.saved, 1)
	assert.Equal(t, entity.EventPaymentFailure, notifications.saved[0].Type)
	assert.Equal(t, entity.PartyPatient, notifications.saved[0].Recipient)
}
