package nuggets

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"quoteme/types"
)

type fakeStore struct {
	quotes []types.Quote
	subs   []types.Subscription
}

func (f *fakeStore) AllQuotes(ctx context.Context) ([]types.Quote, error) {
	return f.quotes, nil
}

func (f *fakeStore) AllSubscriptions(ctx context.Context) ([]types.Subscription, error) {
	return f.subs, nil
}

type fakeSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeSender) SendDaily(ctx context.Context, to string, q types.Quote) error {
	if f.failFor[to] {
		return errors.New("ses rejected")
	}
	f.sent = append(f.sent, to)
	return nil
}

func hourPtr(h int) *int { return &h }

func emailSub(email, tz string, hour int) types.Subscription {
	return types.Subscription{
		Email:          email,
		IsSubscribed:   true,
		DeliveryMethod: "email",
		Timezone:       tz,
		Preferences:    types.NotificationPreferences{DeliveryHour: hourPtr(hour)},
	}
}

func TestOffsetForStandardTime(t *testing.T) {
	january := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	cases := map[string]int{
		"America/New_York":    -5,
		"America/Chicago":     -6,
		"America/Denver":      -7,
		"America/Los_Angeles": -8,
		"America/Phoenix":     -7,
		"Europe/London":       0,
		"Europe/Paris":        1,
		"Asia/Tokyo":          9,
		"Australia/Sydney":    10,
		"Mars/Olympus":        -5, // unknown falls back to Eastern
	}
	for tz, want := range cases {
		if got := offsetFor(tz, january); got != want {
			t.Fatalf("offsetFor(%s, jan) = %d, want %d", tz, got, want)
		}
	}
}

func TestOffsetForDSTWindow(t *testing.T) {
	july := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)

	cases := map[string]int{
		"America/New_York": -4,
		"America/Phoenix":  -7, // no DST
		"Europe/London":    1,
		"Asia/Tokyo":       9, // no DST
		"Australia/Sydney": 11,
	}
	for tz, want := range cases {
		if got := offsetFor(tz, july); got != want {
			t.Fatalf("offsetFor(%s, jul) = %d, want %d", tz, got, want)
		}
	}
}

func TestDueSubscribers(t *testing.T) {
	january := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	subs := []types.Subscription{
		// 13 UTC - 5 = 8 local, matches.
		emailSub("due@example.com", "America/New_York", 8),
		// 13 UTC - 8 = 5 local, wants 8.
		emailSub("west@example.com", "America/Los_Angeles", 8),
		// Right hour but push-only.
		{Email: "push@example.com", IsSubscribed: true, DeliveryMethod: "push",
			Timezone: "America/New_York", Preferences: types.NotificationPreferences{DeliveryHour: hourPtr(8)}},
		// Right hour but unsubscribed.
		{Email: "gone@example.com", IsSubscribed: false, DeliveryMethod: "email",
			Timezone: "America/New_York", Preferences: types.NotificationPreferences{DeliveryHour: hourPtr(8)}},
		// Empty timezone falls back to Eastern, so due as well.
		emailSub("default@example.com", "", 8),
	}

	due := DueSubscribers(subs, 13, january)
	if len(due) != 2 {
		t.Fatalf("expected 2 due subscribers, got %d: %+v", len(due), due)
	}
	if due[0].Email != "due@example.com" || due[1].Email != "default@example.com" {
		t.Fatalf("unexpected due set: %s, %s", due[0].Email, due[1].Email)
	}
}

func TestDueSubscribersDefaultsMissingDeliveryHour(t *testing.T) {
	january := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	// Rows written before the delivery-hour preference existed carry no hour
	// at all. They should behave like the 8 AM default, not like midnight.
	legacy := types.Subscription{
		Email:          "legacy@example.com",
		IsSubscribed:   true,
		DeliveryMethod: "email",
		Timezone:       "America/New_York",
	}

	// 13 UTC - 5 = 8 local, the default hour.
	if due := DueSubscribers([]types.Subscription{legacy}, 13, january); len(due) != 1 {
		t.Fatalf("hour 13: expected legacy subscriber due, got %+v", due)
	}
	// 5 UTC - 5 = 0 local. Only due if the missing hour collapsed to zero.
	if due := DueSubscribers([]types.Subscription{legacy}, 5, january); len(due) != 0 {
		t.Fatalf("hour 5: legacy subscriber treated as midnight, got %+v", due)
	}

	// An explicit midnight still means midnight.
	night := emailSub("night@example.com", "America/New_York", 0)
	if due := DueSubscribers([]types.Subscription{night}, 5, january); len(due) != 1 {
		t.Fatalf("hour 5: explicit midnight subscriber not due, got %+v", due)
	}
}

func TestDueSubscribersWrapsAroundMidnight(t *testing.T) {
	january := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	// 2 UTC + 9 = 11 local in Tokyo; 3 UTC - 5 = -2 -> 22 local in New York.
	subs := []types.Subscription{
		emailSub("tokyo@example.com", "Asia/Tokyo", 11),
		emailSub("ny-night@example.com", "America/New_York", 22),
	}

	if due := DueSubscribers(subs, 2, january); len(due) != 1 || due[0].Email != "tokyo@example.com" {
		t.Fatalf("hour 2: unexpected due set %+v", due)
	}
	if due := DueSubscribers(subs, 3, january); len(due) != 1 || due[0].Email != "ny-night@example.com" {
		t.Fatalf("hour 3: unexpected due set %+v", due)
	}
}

func TestRandomQuote(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := RandomQuote(nil, rng); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("expected ErrNoQuotes, got %v", err)
	}

	// A corpus of nothing but half-entered rows is as empty as no corpus.
	drafts := []types.Quote{{ID: "d1", Quote: "no author yet"}}
	if _, err := RandomQuote(drafts, rng); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("expected ErrNoQuotes for incomplete corpus, got %v", err)
	}

	quotes := []types.Quote{
		{ID: "q1", Quote: "one", Author: "a"},
		{ID: "q2", Quote: "two", Author: "b"},
		{ID: "d1", Quote: "no author yet"},
	}
	for i := 0; i < 20; i++ {
		q, err := RandomQuote(quotes, rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID != "q1" && q.ID != "q2" {
			t.Fatalf("picked quote outside complete corpus: %+v", q)
		}
	}
}

func TestDeliverHourCountsFailures(t *testing.T) {
	// Tokyo has no DST adjustment, so local hour 8 is always 23 UTC and the
	// test passes year-round.
	hour := 23

	store := &fakeStore{
		quotes: []types.Quote{{ID: "q1", Quote: "the quote", Author: "someone"}},
		subs: []types.Subscription{
			emailSub("ok@example.com", "Asia/Tokyo", 8),
			emailSub("broken@example.com", "Asia/Tokyo", 8),
		},
	}
	sender := &fakeSender{failFor: map[string]bool{"broken@example.com": true}}
	d := NewDeliverer(store, sender)

	sent, failed, err := d.DeliverHour(context.Background(), hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 || failed != 1 {
		t.Fatalf("sent=%d failed=%d, want 1/1", sent, failed)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "ok@example.com" {
		t.Fatalf("unexpected recipients: %v", sender.sent)
	}
}

func TestDeliverHourNoQuotes(t *testing.T) {
	hour := 23

	store := &fakeStore{
		subs: []types.Subscription{emailSub("ok@example.com", "Asia/Tokyo", 8)},
	}
	d := NewDeliverer(store, &fakeSender{})

	if _, _, err := d.DeliverHour(context.Background(), hour); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("expected ErrNoQuotes, got %v", err)
	}
}

func TestBuildShareLinks(t *testing.T) {
	q := types.Quote{ID: "q1", Quote: "know thyself", Author: "Socrates"}
	links := BuildShareLinks("https://quote-me.example.com", q)

	if !strings.HasPrefix(links.Twitter, "https://twitter.com/intent/tweet?text=") {
		t.Fatalf("twitter link = %q", links.Twitter)
	}
	if !strings.Contains(links.LinkedIn, "quote%2Fq1") {
		t.Fatalf("linkedin link should embed escaped page URL: %q", links.LinkedIn)
	}
	if !strings.HasPrefix(links.Email, "mailto:?subject=") {
		t.Fatalf("email link = %q", links.Email)
	}
}

func TestBuildEmailCapsTags(t *testing.T) {
	q := types.Quote{
		ID: "q1", Quote: "know thyself", Author: "Socrates",
		Tags: []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"},
	}
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	subject, htmlBody, textBody, err := buildEmail("https://quote-me.example.com", "quoteme://", q, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(subject, "June 1, 2024") {
		t.Fatalf("subject = %q", subject)
	}
	if strings.Contains(htmlBody, "t6") || strings.Contains(textBody, "t6") {
		t.Fatal("expected tags capped at five")
	}
	if !strings.Contains(htmlBody, "know thyself") {
		t.Fatal("html body missing quote text")
	}
	if !strings.Contains(htmlBody, "quoteme://quote/q1") {
		t.Fatal("html body missing deep link")
	}
}

func TestNotificationBodyTruncation(t *testing.T) {
	short := "short quote"
	if got := notificationBody(short); got != short {
		t.Fatalf("short quote altered: %q", got)
	}

	long := strings.Repeat("a", 150)
	got := notificationBody(long)
	if got != strings.Repeat("a", 100)+"..." {
		t.Fatalf("long quote not truncated to 100 runes: %q", got)
	}
}
