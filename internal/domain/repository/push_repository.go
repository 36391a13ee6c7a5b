package repository

import (
	"context"

	"telecare-notifier/internal/domain/entity"
)

// PushSender defines the push-delivery capability. Send reports one result
// per message; a failed recipient never aborts the rest of the batch.
type PushSender interface {
	// ValidToken reports whether the address looks deliverable for this
	// provider. Invalid tokens are skipped before any network call.
	ValidToken(token string) bool
	Send(ctx context.Context, messages []*entity.PushMessage) []entity.PushResult
}
