package repository

import (
	"context"
	"errors"
	"time"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/apperrors"

	"gorm.io/gorm"
)

// GormBookingRepository implements the BookingRepository interface
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GORM booking repository
func NewGormBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &GormBookingRepository{
		db: db,
	}
}

// Bookings GORM model for database mapping
type Bookings struct {
	ID             string `gorm:"primaryKey;column:id"`
	PatientID      string `gorm:"column:patient_id"`
	DoctorID       string `gorm:"column:doctor_id"`
	BookingDate    string `gorm:"column:booking_date"`
	TimeSlot       string `gorm:"column:booking_time_slot"`
	Amount         float64
	Currency       string
	Status         string
	PaymentStatus  string `gorm:"column:payment_status"`
	Paid           bool
	MeetLink       string `gorm:"column:meet_link"`
	GatewayPayload []byte `gorm:"column:gateway_payload;type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the default table name
func (Bookings) TableName() string {
	return "bookings"
}

// GetByID finds a booking by id
func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	var booking Bookings
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&booking)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, apperrors.Dependency("failed to read booking", result.Error)
	}

	return &entity.Booking{
		ID:             booking.ID,
		PatientID:      booking.PatientID,
		DoctorID:       booking.DoctorID,
		BookingDate:    booking.BookingDate,
		TimeSlot:       booking.TimeSlot,
		Amount:         booking.Amount,
		Currency:       booking.Currency,
		Status:         booking.Status,
		PaymentStatus:  booking.PaymentStatus,
		Paid:           booking.Paid,
		MeetLink:       booking.MeetLink,
		GatewayPayload: booking.GatewayPayload,
		CreatedAt:      booking.CreatedAt,
		UpdatedAt:      booking.UpdatedAt,
	}, nil
}

// UpdatePayment applies a payment-field update to a single row. Scheduling
// columns are never part of the update map.
func (r *GormBookingRepository) UpdatePayment(ctx context.Context, id string, update repository.PaymentUpdate) error {
	values := map[string]interface{}{
		"payment_status": update.PaymentStatus,
		"updated_at":     time.Now().UTC(),
	}
	if update.Paid != nil {
		values["paid"] = *update.Paid
	}
	if update.GatewayPayload != nil {
		values["gateway_payload"] = update.GatewayPayload
	}

	return r.updateColumns(ctx, id, values)
}

// UpdateStatus sets the booking status field only
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

// UpdateMeetLink sets the meeting link field only
func (r *GormBookingRepository) UpdateMeetLink(ctx context.Context, id string, meetLink string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"meet_link":  meetLink,
		"updated_at": time.Now().UTC(),
	})
}

func (r *GormBookingRepository) updateColumns(ctx context.Context, id string, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Bookings{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return apperrors.Dependency("failed to update booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("booking not found")
	}
	return nil
}
