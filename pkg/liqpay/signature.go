package liqpay

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingData is returned when the callback carries no data field.
	ErrMissingData = errors.New("liqpay: missing data")
	// ErrMissingSignature is returned when the callback carries no signature field.
	ErrMissingSignature = errors.New("liqpay: missing signature")
	// ErrBadSignature is returned when the recomputed signature does not match.
	ErrBadSignature = errors.New("liqpay: signature mismatch")
)

// Sign computes base64(sha1(privateKey + data + privateKey)) over the
// still-encoded data blob, matching the gateway's callback signature scheme.
func Sign(privateKey, data string) string {
	digest := sha1.Sum([]byte(privateKey + data + privateKey))
	return base64.StdEncoding.EncodeToString(digest[:])
}

// Verify checks a received callback signature. The data blob is not decoded
// here; decoding happens only after the signature is accepted.
func Verify(privateKey, data, signature string) error {
	if data == "" {
		return ErrMissingData
	}
	if signature == "" {
		return ErrMissingSignature
	}

	expected := Sign(privateKey, data)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrBadSignature
	}
	return nil
}

// Callback is the decoded payload of a gateway server-to-server callback.
// Only the fields this service acts on are typed; the full payload is kept
// verbatim in Raw for auditing.
type Callback struct {
	OrderID     string  `json:"order_id"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	PaymentID   int64   `json:"payment_id"`
	Description string  `json:"description"`
	ErrCode     string  `json:"err_code"`
	ErrDesc     string  `json:"err_description"`

	Raw json.RawMessage `json:"-"`
}

// DecodeCallback decodes the base64 data blob into a Callback. Call Verify
// first; a decode failure after acceptance is a malformed-payload error, not
// an authentication one.
func DecodeCallback(data string) (*Callback, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("liqpay: decode data: %w", err)
	}

	var cb Callback
	if err := json.Unmarshal(decoded, &cb); err != nil {
		return nil, fmt.Errorf("liqpay: unmarshal callback: %w", err)
	}
	cb.Raw = json.RawMessage(decoded)

	if cb.OrderID == "" {
		return nil, errors.New("liqpay: callback missing order_id")
	}
	return &cb, nil
}
