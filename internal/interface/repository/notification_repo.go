package repository

import (
	"context"
	"encoding/json"
	"time"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements the NotificationRepository interface
// over the per-role notification tables.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository
func NewGormNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &GormNotificationRepository{
		db: db,
	}
}

// PatientNotifications GORM model for database mapping
type PatientNotifications struct {
	ID        string `gorm:"primaryKey;column:id"`
	PatientID string `gorm:"column:patient_id"`
	BookingID string `gorm:"column:booking_id"`
	Title     string
	Body      string
	Type      string
	Data      []byte `gorm:"type:jsonb"`
	Read      bool
	CreatedAt time.Time
}

// TableName overrides the default table name
func (PatientNotifications) TableName() string {
	return "patient_notifications"
}

// DoctorNotifications GORM model for database mapping
type DoctorNotifications struct {
	ID        string `gorm:"primaryKey;column:id"`
	DoctorID  string `gorm:"column:doctor_id"`
	BookingID string `gorm:"column:booking_id"`
	Title     string
	Body      string
	Type      string
	Data      []byte `gorm:"type:jsonb"`
	Read      bool
	CreatedAt time.Time
}

// TableName overrides the default table name
func (DoctorNotifications) TableName() string {
	return "doctor_notifications"
}

// Save persists one notification record into the recipient's table
func (r *GormNotificationRepository) Save(ctx context.Context, record *entity.NotificationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(record.Data)
	if err != nil {
		return apperrors.Dependency("failed to marshal notification data", err)
	}

	var result *gorm.DB
	if record.Recipient == entity.PartyDoctor {
		result = r.db.WithContext(ctx).Create(&DoctorNotifications{
			ID:        record.ID,
			DoctorID:  record.RecipientID,
			BookingID: record.BookingID,
			Title:     record.Title,
			Body:      record.Body,
			Type:      string(record.Type),
			Data:      data,
			Read:      record.Read,
			CreatedAt: record.CreatedAt,
		})
	} else {
		result = r.db.WithContext(ctx).Create(&PatientNotifications{
			ID:        record.ID,
			PatientID: record.RecipientID,
			BookingID: record.BookingID,
			Title:     record.Title,
			Body:      record.Body,
			Type:      string(record.Type),
			Data:      data,
			Read:      record.Read,
			CreatedAt: record.CreatedAt,
		})
	}

	if result.Error != nil {
		return apperrors.Dependency("failed to save notification record", result.Error)
	}
	return nil
}

// ListByRecipient returns the most recent records for one recipient
func (r *GormNotificationRepository) ListByRecipient(ctx context.Context, kind entity.PartyKind, recipientID string, limit int) ([]*entity.NotificationRecord, error) {
	records := make([]*entity.NotificationRecord, 0, limit)

	if kind == entity.PartyDoctor {
		var rows []DoctorNotifications
		result := r.db.WithContext(ctx).
			Where("doctor_id = ?", recipientID).
			Order("created_at DESC").
			Limit(limit).
			Find(&rows)
		if result.Error != nil {
			return nil, apperrors.Dependency("failed to list notifications", result.Error)
		}
		for _, row := range rows {
			records = append(records, toRecord(kind, row.ID, row.DoctorID, row.BookingID, row.Title, row.Body, row.Type, row.Data, row.Read, row.CreatedAt))
		}
		return records, nil
	}

	var rows []PatientNotifications
	result := r.db.WithContext(ctx).
		Where("patient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, apperrors.Dependency("failed to list notifications", result.Error)
	}
	for _, row := range rows {
		records = append(records, toRecord(kind, row.ID, row.PatientID, row.BookingID, row.Title, row.Body, row.Type, row.Data, row.Read, row.CreatedAt))
	}
	return records, nil
}

// MarkRead flips the read flag on one record
func (r *GormNotificationRepository) MarkRead(ctx context.Context, kind entity.PartyKind, id string) error {
	var result *gorm.DB
	if kind == entity.PartyDoctor {
		result = r.db.WithContext(ctx).Model(&DoctorNotifications{}).Where("id = ?", id).Update("read", true)
	} else {
		result = r.db.WithContext(ctx).Model(&PatientNotifications{}).Where("id = ?", id).Update("read", true)
	}
	if result.Error != nil {
		return apperrors.Dependency("failed to mark notification read", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("notification not found")
	}
	return nil
}

func toRecord(kind entity.PartyKind, id, recipientID, bookingID, title, body, typ string, data []byte, read bool, createdAt time.Time) *entity.NotificationRecord {
	payload := map[string]string{}
	if len(data) > 0 {
		json.Unmarshal(data, &payload)
	}
	return &entity.NotificationRecord{
		ID:          id,
		Recipient:   kind,
		RecipientID: recipientID,
		BookingID:   bookingID,
		Title:       title,
		Body:        body,
		Type:        entity.EventKind(typ),
		Data:        payload,
		Read:        read,
		CreatedAt:   createdAt,
	}
}
