package liqpay

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const privateKey = "sandbox_aSbpD6cu"

func encode(payload string) string {
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestSignVerifyRoundtrip(t *testing.T) {
	data := encode(`{"order_id":"bk-1","status":"success"}`)
	signature := Sign(privateKey, data)

	assert.NoError(t, Verify(privateKey, data, signature))
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	data := encode(`{"order_id":"bk-1","status":"success"}`)
	signature := Sign(privateKey, data)
	tampered := encode(`{"order_id":"bk-1","status":"failure"}`)

	err := Verify(privateKey, tampered, signature)
	assert.True(t, errors.Is(err, ErrBadSignature))
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	data := encode(`{"order_id":"bk-1","status":"success"}`)
	signature := Sign(privateKey, data)
	flipped := []byte(signature)
	flipped[0] ^= 0x01

	err := Verify(privateKey, data, string(flipped))
	assert.True(t, errors.Is(err, ErrBadSignature))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	data := encode(`{"order_id":"bk-1"}`)
	signature := Sign("some_other_key", data)

	err := Verify(privateKey, data, signature)
	assert.True(t, errors.Is(err, ErrBadSignature))
}

func TestVerifyMissingFields(t *testing.T) {
	assert.True(t, errors.Is(Verify(privateKey, "", "sig"), ErrMissingData))
	assert.True(t, errors.Is(Verify(privateKey, "data", ""), ErrMissingSignature))
}

func TestDecodeCallback(t *testing.T) {
	data := encode(`{"order_id":"bk-1","status":"sandbox","amount":150.5,"currency":"UAH","payment_id":42}`)

	callback, err := DecodeCallback(data)

	assert.NoError(t, err)
	assert.Equal(t, "bk-1", callback.OrderID)
	assert.Equal(t, "sandbox", callback.Status)
	assert.Equal(t, 150.5, callback.Amount)
	assert.Equal(t, "UAH", callback.Currency)
	assert.JSONEq(t, `{"order_id":"bk-1","status":"sandbox","amount":150.5,"currency":"UAH","payment_id":42}`, string(callback.Raw))
}

func TestDecodeCallbackRejectsBadBase64(t *testing.T) {
	_, err := DecodeCallback("%%%not-base64%%%")
	assert.Error(t, err)
}

func TestDecodeCallbackRejectsBadJSON(t *testing.T) {
	_, err := DecodeCallback(encode(`not json at all`))
	assert.Error(t, err)
}

func TestDecodeCallbackRequiresOrderID(t *testing.T) {
	_, err := DecodeCallback(encode(`{"status":"success"}`))
	assert.Error(t, err)
}
