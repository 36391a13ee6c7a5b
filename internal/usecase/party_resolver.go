package usecase

import (
	"context"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/logger"
)

// PartyResolver looks up a participant's push address, language, timezone and
// display name. It never fails: a missing profile, a missing field or a read
// error yields defaults so processing for the other party can continue.
type PartyResolver struct {
	parties repository.PartyRepository
	logger  logger.Logger
}

// NewPartyResolver creates a new party resolver
func NewPartyResolver(parties repository.PartyRepository, logger logger.Logger) *PartyResolver {
	return &PartyResolver{
		parties: parties,
		logger:  logger,
	}
}

// Resolve returns the profile for one party, defaulted wherever a lookup
// came back short.
func (r *PartyResolver) Resolve(ctx context.Context, kind entity.PartyKind, id string) *entity.PartyProfile {
	var profile *entity.PartyProfile
	var err error

	switch kind {
	case entity.PartyDoctor:
		profile, err = r.parties.GetDoctor(ctx, id)
	default:
		profile, err = r.parties.GetPatient(ctx, id)
	}

	if err != nil {
		r.logger.Warn("Party lookup failed, using defaults", "kind", kind, "id", id, "error", err)
		profile = entity.DefaultProfile(kind, id)
	}

	if kind == entity.PartyDoctor {
		// The doctor's timezone lives in a separate settings record; a miss
		// there defaults only the timezone.
		tz, tzErr := r.parties.GetDoctorTimezone(ctx, id)
		if tzErr != nil {
			r.logger.Warn("Doctor timezone lookup failed, using default", "id", id, "error", tzErr)
		} else {
			profile.Timezone = tz
		}
	}

	applyDefaults(profile)
	return profile
}

func applyDefaults(profile *entity.PartyProfile) {
	fallback := entity.DefaultProfile(profile.Kind, profile.ID)
	if profile.DisplayName == "" {
		profile.DisplayName = fallback.DisplayName
	}
	if profile.Language == "" {
		profile.Language = fallback.Language
	}
	if profile.Timezone == "" {
		profile.Timezone = fallback.Timezone
	}
}
