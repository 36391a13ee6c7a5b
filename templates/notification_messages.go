package templates

import (
	"strconv"
	"strings"
	"time"

	"telecare-notifier/internal/domain/entity"
)

// DateLayout is how consultation times appear in notification bodies, after
// conversion into the recipient's own timezone.
const DateLayout = "02 Jan 2006 15:04"

// MessageParams carries the event-specific values interpolated into a
// message. Amount and currency are inserted verbatim, never re-formatted.
type MessageParams struct {
	CounterpartName string
	StartAtUTC      time.Time
	Timezone        string
	Amount          float64
	Currency        string
	Status          string
	MeetLink        string
}

type message struct {
	Title string
	Body  string
}

// Placeholders: {name} {date} {amount} {currency} {status} {link}
var catalog = map[string]map[entity.EventKind]message{
	"en": {
		entity.EventPaymentSuccess: {
			Title: "Payment Confirmed!",
			Body:  "Your payment of {amount} {currency} for the consultation with {name} on {date} has been received.",
		},
		entity.EventPaymentFailure: {
			Title: "Payment Failed",
			Body:  "Your payment for the consultation with {name} on {date} was not completed (status: {status}).",
		},
		entity.EventBookingConfirmed: {
			Title: "Booking Confirmed",
			Body:  "Your consultation with {name} is confirmed for {date}.",
		},
		entity.EventBookingRejected: {
			Title: "Booking Declined",
			Body:  "Unfortunately, your consultation with {name} on {date} was declined.",
		},
		entity.EventMeetLinkUpdated: {
			Title: "Meeting Link Updated",
			Body:  "The meeting link for your consultation with {name} on {date} has been updated: {link}",
		},
		entity.EventNewBookingDoctor: {
			Title: "New Booking",
			Body:  "{name} booked a consultation with you on {date} for {amount} {currency}.",
		},
	},
	"uk": {
		entity.EventPaymentSuccess: {
			Title: "Оплату підтверджено!",
			Body:  "Ваш платіж на {amount} {currency} за консультацію з {name} {date} отримано.",
		},
		entity.EventPaymentFailure: {
			Title: "Оплата не пройшла",
			Body:  "Ваш платіж за консультацію з {name} {date} не завершено (статус: {status}).",
		},
		entity.EventBookingConfirmed: {
			Title: "Запис підтверджено",
			Body:  "Вашу консультацію з {name} підтверджено на {date}.",
		},
		entity.EventBookingRejected: {
			Title: "Запис відхилено",
			Body:  "На жаль, вашу консультацію з {name} {date} відхилено.",
		},
		entity.EventMeetLinkUpdated: {
			Title: "Посилання на зустріч оновлено",
			Body:  "Посилання на вашу консультацію з {name} {date} оновлено: {link}",
		},
		entity.EventNewBookingDoctor: {
			Title: "Новий запис",
			Body:  "{name} записався(-лась) на консультацію до вас {date} на суму {amount} {currency}.",
		},
	},
}

// Build renders the (title, body) pair for an event in the given language.
// Unknown languages fall back to the default language; an unloadable
// timezone falls back to UTC. Build is total: it always returns content for
// every known event kind.
func Build(kind entity.EventKind, language string, params MessageParams) (string, string) {
	messages, ok := catalog[normalizeLanguage(language)]
	if !ok {
		messages = catalog[entity.DefaultLanguage]
	}
	msg, ok := messages[kind]
	if !ok {
		msg = catalog[entity.DefaultLanguage][kind]
	}

	replacer := strings.NewReplacer(
		"{name}", params.CounterpartName,
		"{date}", localDate(params.StartAtUTC, params.Timezone),
		"{amount}", strconv.FormatFloat(params.Amount, 'f', -1, 64),
		"{currency}", params.Currency,
		"{status}", params.Status,
		"{link}", params.MeetLink,
	)

	return replacer.Replace(msg.Title), replacer.Replace(msg.Body)
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	// "en-US" and "en_US" both select "en"
	if i := strings.IndexAny(language, "-_"); i > 0 {
		language = language[:i]
	}
	return language
}

func localDate(utc time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return utc.In(loc).Format(DateLayout)
}
