package repository

import (
	"context"

	"telecare-notifier/internal/domain/entity"
)

// PartyRepository defines the interface for reading party profiles. Lookup
// misses surface as errors here; the resolver turns them into defaults.
type PartyRepository interface {
	GetPatient(ctx context.Context, id string) (*entity.PartyProfile, error)
	GetDoctor(ctx context.Context, id string) (*entity.PartyProfile, error)
	// GetDoctorTimezone reads the doctor's timezone, which lives in a
	// settings record separate from the doctor profile.
	GetDoctorTimezone(ctx context.Context, id string) (string, error)
	ListPatients(ctx context.Context) ([]*entity.PartyProfile, error)
	ListDoctors(ctx context.Context) ([]*entity.PartyProfile, error)
}
