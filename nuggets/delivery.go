package nuggets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"quoteme/config"
	"quoteme/storage"
	"quoteme/types"
)

// Store is the persistence surface scheduled delivery reads from.
type Store interface {
	AllQuotes(ctx context.Context) ([]types.Quote, error)
	AllSubscriptions(ctx context.Context) ([]types.Subscription, error)
}

// Sender delivers one quote to one recipient.
type Sender interface {
	SendDaily(ctx context.Context, to string, q types.Quote) error
}

// ErrNoQuotes is returned when the corpus is empty and nothing can be sent.
var ErrNoQuotes = errors.New("no quotes available")

// offsetFor returns the UTC offset in hours for the timezones the mobile app
// offers. The March-November adjustment is a coarse stand-in for real DST
// rules; it is kept because subscribers have tuned their delivery hours
// around it. Unknown zones behave like Eastern.
func offsetFor(tz string, now time.Time) int {
	dst := now.Month() >= time.March && now.Month() <= time.November
	switch tz {
	case "America/Chicago":
		if dst {
			return -5
		}
		return -6
	case "America/Denver":
		if dst {
			return -6
		}
		return -7
	case "America/Los_Angeles":
		if dst {
			return -7
		}
		return -8
	case "America/Phoenix":
		return -7 // no DST
	case "Europe/London":
		if dst {
			return 1
		}
		return 0
	case "Europe/Paris":
		if dst {
			return 2
		}
		return 1
	case "Asia/Tokyo":
		return 9
	case "Australia/Sydney":
		if dst {
			return 11
		}
		return 10
	default: // America/New_York and anything unrecognized
		if dst {
			return -4
		}
		return -5
	}
}

// DueSubscribers filters active email subscribers whose preferred local
// delivery hour lands on the given UTC hour. Subscribers without a stored
// delivery hour get the default, not midnight.
func DueSubscribers(subs []types.Subscription, hourUTC int, now time.Time) []types.Subscription {
	var due []types.Subscription
	for _, sub := range subs {
		if !sub.IsSubscribed || sub.DeliveryMethod != "email" {
			continue
		}
		tz := sub.Timezone
		if tz == "" {
			tz = config.DefaultTimezone
		}
		want := config.DefaultDeliveryHour
		if sub.Preferences.DeliveryHour != nil {
			want = *sub.Preferences.DeliveryHour
		}
		localHour := ((hourUTC+offsetFor(tz, now))%24 + 24) % 24
		if localHour == want {
			due = append(due, sub)
		}
	}
	return due
}

// RandomQuote picks one quote using the supplied rand source. Rows missing
// text or attribution are never served.
func RandomQuote(quotes []types.Quote, rng *rand.Rand) (*types.Quote, error) {
	complete := make([]types.Quote, 0, len(quotes))
	for _, q := range quotes {
		if storage.IsComplete(q) {
			complete = append(complete, q)
		}
	}
	if len(complete) == 0 {
		return nil, ErrNoQuotes
	}
	q := complete[rng.Intn(len(complete))]
	return &q, nil
}

// Deliverer fans the daily quote out to every due subscriber.
type Deliverer struct {
	store  Store
	sender Sender
	rng    *rand.Rand
}

func NewDeliverer(store Store, sender Sender) *Deliverer {
	return &Deliverer{
		store:  store,
		sender: sender,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// DailyQuote picks a random quote from the corpus.
func (d *Deliverer) DailyQuote(ctx context.Context) (*types.Quote, error) {
	quotes, err := d.store.AllQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quotes for delivery: %w", err)
	}
	return RandomQuote(quotes, d.rng)
}

// DeliverHour sends the day's quote to every subscriber due at the given UTC
// hour. Per-recipient failures are logged and counted but never abort the
// run; all due subscribers see the same quote.
func (d *Deliverer) DeliverHour(ctx context.Context, hourUTC int) (sent, failed int, err error) {
	subs, err := d.store.AllSubscriptions(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load subscriptions: %w", err)
	}

	due := DueSubscribers(subs, hourUTC, time.Now().UTC())
	if len(due) == 0 {
		log.Debug("no subscribers due", "hour_utc", hourUTC)
		return 0, 0, nil
	}

	quote, err := d.DailyQuote(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, sub := range due {
		if err := d.sender.SendDaily(ctx, sub.Email, *quote); err != nil {
			log.Error("failed to send daily nugget", "email", sub.Email, "err", err)
			failed++
			continue
		}
		sent++
	}

	log.Info("daily delivery complete", "hour_utc", hourUTC, "sent", sent, "failed", failed)
	return sent, failed, nil
}
