package entity

// PartyKind identifies which side of a booking a profile belongs to.
type PartyKind string

const (
	PartyPatient PartyKind = "patient"
	PartyDoctor  PartyKind = "doctor"
)

// Defaults applied when a profile or one of its fields cannot be resolved.
const (
	DefaultLanguage = "en"
	DefaultTimezone = "UTC"
)

// PartyProfile carries what the notifier needs to know about a recipient.
// Read-only from this service's perspective.
type PartyProfile struct {
	Kind        PartyKind
	ID          string
	DisplayName string
	PushToken   string // empty when the party has no registered device
	Language    string
	Timezone    string // IANA zone name
}

// DefaultProfile is the profile used when a lookup fails entirely, so that
// processing for the other party can still proceed.
func DefaultProfile(kind PartyKind, id string) *PartyProfile {
	name := "Patient"
	if kind == PartyDoctor {
		name = "Doctor"
	}
	return &PartyProfile{
		Kind:        kind,
		ID:          id,
		DisplayName: name,
		Language:    DefaultLanguage,
		Timezone:    DefaultTimezone,
	}
}
