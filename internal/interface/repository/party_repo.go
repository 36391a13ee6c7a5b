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

// GormPartyRepository implements the PartyRepository interface
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GORM party repository
func NewGormPartyRepository(db *gorm.DB) repository.PartyRepository {
	return &GormPartyRepository{
		db: db,
	}
}

// Patients GORM model for database mapping
type Patients struct {
	ID        string `gorm:"primaryKey;column:id"`
	FullName  string `gorm:"column:full_name"`
	PushToken string `gorm:"column:push_token"`
	Language  string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Patients) TableName() string {
	return "patients"
}

// Doctors GORM model for database mapping. The doctor's timezone is not
// here: it lives in doctor_settings.
type Doctors struct {
	ID        string `gorm:"primaryKey;column:id"`
	FullName  string `gorm:"column:full_name"`
	PushToken string `gorm:"column:push_token"`
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Doctors) TableName() string {
	return "doctors"
}

// DoctorSettings GORM model for database mapping
type DoctorSettings struct {
	DoctorID  string `gorm:"primaryKey;column:doctor_id"`
	Timezone  string
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (DoctorSettings) TableName() string {
	return "doctor_settings"
}

// GetPatient finds a patient profile by id
func (r *GormPartyRepository) GetPatient(ctx context.Context, id string) (*entity.PartyProfile, error) {
	var patient Patients
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&patient)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("patient not found")
		}
		return nil, apperrors.Dependency("failed to read patient", result.Error)
	}

	return &entity.PartyProfile{
		Kind:        entity.PartyPatient,
		ID:          patient.ID,
		DisplayName: patient.FullName,
		PushToken:   patient.PushToken,
		Language:    patient.Language,
		Timezone:    patient.Timezone,
	}, nil
}

// GetDoctor finds a doctor profile by id. Timezone is left empty here; the
// resolver merges it in from GetDoctorTimezone.
func (r *GormPartyRepository) GetDoctor(ctx context.Context, id string) (*entity.PartyProfile, error) {
	var doctor Doctors
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("doctor not found")
		}
		return nil, apperrors.Dependency("failed to read doctor", result.Error)
	}

	return &entity.PartyProfile{
		Kind:        entity.PartyDoctor,
		ID:          doctor.ID,
		DisplayName: doctor.FullName,
		PushToken:   doctor.PushToken,
		Language:    doctor.Language,
	}, nil
}

// GetDoctorTimezone reads the doctor's timezone from the settings record
func (r *GormPartyRepository) GetDoctorTimezone(ctx context.Context, id string) (string, error) {
	var settings DoctorSettings
	result := r.db.WithContext(ctx).Where("doctor_id = ?", id).First(&settings)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("doctor settings not found")
		}
		return "", apperrors.Dependency("failed to read doctor settings", result.Error)
	}

	return settings.Timezone, nil
}

// ListPatients returns every patient profile, for broadcast fan-out
func (r *GormPartyRepository) ListPatients(ctx context.Context) ([]*entity.PartyProfile, error) {
	var patients []Patients
	result := r.db.WithContext(ctx).Find(&patients)
	if result.Error != nil {
		return nil, apperrors.Dependency("failed to list patients", result.Error)
	}

	profiles := make([]*entity.PartyProfile, 0, len(patients))
	for _, p := range patients {
		profiles = append(profiles, &entity.PartyProfile{
			Kind:        entity.PartyPatient,
			ID:          p.ID,
			DisplayName: p.FullName,
			PushToken:   p.PushToken,
			Language:    p.Language,
			Timezone:    p.Timezone,
		})
	}
	return profiles, nil
}

// ListDoctors returns every doctor profile, for broadcast fan-out
func (r *GormPartyRepository) ListDoctors(ctx context.Context) ([]*entity.PartyProfile, error) {
	var doctors []Doctors
	result := r.db.WithContext(ctx).Find(&doctors)
	if result.Error != nil {
		return nil, apperrors.Dependency("failed to list doctors", result.Error)
	}

	profiles := make([]*entity.PartyProfile, 0, len(doctors))
	for _, d := range doctors {
		profiles = append(profiles, &entity.PartyProfile{
			Kind:        entity.PartyDoctor,
			ID:          d.ID,
			DisplayName: d.FullName,
			PushToken:   d.PushToken,
			Language:    d.Language,
		})
	}
	return profiles, nil
}
