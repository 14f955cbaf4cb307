package nuggets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"quoteme/types"
)

// Pusher sends push notifications through the FCM v1 API.
type Pusher struct {
	svc       *fcm.Service
	projectID string
}

// NewPusher builds a Pusher from raw service-account JSON. The project id is
// read out of the same JSON, matching how the FCM console hands it out.
func NewPusher(ctx context.Context, serviceAccountJSON string) (*Pusher, error) {
	if serviceAccountJSON == "" {
		return nil, errors.New("FCM service account not configured")
	}

	var account struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(serviceAccountJSON), &account); err != nil {
		return nil, fmt.Errorf("parse FCM service account: %w", err)
	}
	if account.ProjectID == "" {
		return nil, errors.New("FCM service account missing project_id")
	}

	svc, err := fcm.NewService(ctx,
		option.WithCredentialsJSON([]byte(serviceAccountJSON)),
		option.WithScopes("https://www.googleapis.com/auth/firebase.messaging"),
	)
	if err != nil {
		return nil, fmt.Errorf("create FCM service: %w", err)
	}

	return &Pusher{svc: svc, projectID: account.ProjectID}, nil
}

// notificationBody truncates long quotes for the notification shade.
func notificationBody(quote string) string {
	if utf8.RuneCountInString(quote) <= 100 {
		return quote
	}
	runes := []rune(quote)
	return string(runes[:100]) + "..."
}

func (p *Pusher) buildMessage(token string, q types.Quote) *fcm.Message {
	return &fcm.Message{
		Token: token,
		Notification: &fcm.Notification{
			Title: "Test Daily Nugget",
			Body:  notificationBody(q.Quote),
		},
		Data: map[string]string{
			"quoteId":   q.ID,
			"author":    q.Author,
			"fullQuote": q.Quote,
			"type":      "test_notification",
		},
		Android: &fcm.AndroidConfig{
			Notification: &fcm.AndroidNotification{
				ClickAction: "FLUTTER_NOTIFICATION_CLICK",
				ChannelId:   "daily_nuggets",
			},
		},
		Apns: &fcm.ApnsConfig{
			Payload: googleapi.RawMessage(`{"aps":{"category":"DAILY_NUGGET"}}`),
		},
	}
}

// SendTest pushes a quote to every registered device token. Each platform is
// attempted independently; the caller gets the success count plus one error
// string per failed platform.
func (p *Pusher) SendTest(ctx context.Context, tokens map[string]string, q types.Quote) (sent int, errs []string) {
	parent := "projects/" + p.projectID
	for platform, token := range tokens {
		if token == "" {
			continue
		}

		req := &fcm.SendMessageRequest{Message: p.buildMessage(token, q)}
		if _, err := p.svc.Projects.Messages.Send(parent, req).Context(ctx).Do(); err != nil {
			msg := fmt.Sprintf("Error sending to %s: %v", platform, err)
			errs = append(errs, msg)
			log.Error("push notification failed", "platform", platform, "err", err)
			continue
		}
		sent++
		log.Info("push notification sent", "platform", platform)
	}
	return sent, errs
}
