package repository

import (
	"context"

	"telecare-notifier/internal/domain/entity"
)

// NotificationRepository defines the interface for the per-role notification
// tables backing in-app history.
type NotificationRepository interface {
	Save(ctx context.Context, record *entity.NotificationRecord) error
	ListByRecipient(ctx context.Context, kind entity.PartyKind, recipientID string, limit int) ([]*entity.NotificationRecord, error)
	MarkRead(ctx context.Context, kind entity.PartyKind, id string) error
}
