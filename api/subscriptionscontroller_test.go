package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteme/types"
)

func intPtr(n int) *int { return &n }

func TestGetSubscriptionNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodGet, "/subscriptions", userToken(t), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No subscription found", decodeBody(t, w)["message"])
}

func TestUpdateSubscriptionDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPut, "/subscriptions", userToken(t), map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)

	sub := env.store.subs["user@example.com"]
	require.NotNil(t, sub)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, "email", sub.DeliveryMethod)
	assert.Equal(t, "America/New_York", sub.Timezone)
	require.NotNil(t, sub.Preferences.DeliveryHour)
	assert.Equal(t, 8, *sub.Preferences.DeliveryHour)
	assert.NotEmpty(t, sub.CreatedAt)
}

func TestUpdateSubscriptionPreservesCreatedAtAndTokens(t *testing.T) {
	env := newTestEnv(t)
	env.store.subs["user@example.com"] = &types.Subscription{
		Email:          "user@example.com",
		IsSubscribed:   true,
		DeliveryMethod: "email",
		Timezone:       "Europe/London",
		Preferences: types.NotificationPreferences{
			DeliveryHour: intPtr(7),
			FCMTokens:    map[string]string{"android": "tok-1"},
		},
		CreatedAt: "2024-01-01T00:00:00Z",
	}

	w := doJSON(t, env.router, http.MethodPut, "/subscriptions", userToken(t), map[string]any{
		"timezone": "Asia/Tokyo",
		"notification_preferences": map[string]any{
			"deliveryHour": 21,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	sub := env.store.subs["user@example.com"]
	assert.Equal(t, "Asia/Tokyo", sub.Timezone)
	require.NotNil(t, sub.Preferences.DeliveryHour)
	assert.Equal(t, 21, *sub.Preferences.DeliveryHour)
	assert.Equal(t, "2024-01-01T00:00:00Z", sub.CreatedAt)
	assert.Equal(t, map[string]string{"android": "tok-1"}, sub.Preferences.FCMTokens)
}

func TestUpdateSubscriptionUnsubscribe(t *testing.T) {
	env := newTestEnv(t)

	unsubscribed := false
	w := doJSON(t, env.router, http.MethodPut, "/subscriptions", userToken(t), map[string]any{
		"is_subscribed": unsubscribed,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.store.subs["user@example.com"].IsSubscribed)
}

func TestDeleteSubscription(t *testing.T) {
	env := newTestEnv(t)
	env.store.subs["user@example.com"] = &types.Subscription{Email: "user@example.com"}

	w := doJSON(t, env.router, http.MethodDelete, "/subscriptions", userToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Subscription deleted successfully", decodeBody(t, w)["message"])
	assert.Empty(t, env.store.subs)
}

func TestTestEmail(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/subscriptions/test", userToken(t), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No quotes available", decodeBody(t, w)["error"])

	seedQuote(env.store, "q1", "Quote one text here", "Author One")
	w = doJSON(t, env.router, http.MethodPost, "/subscriptions/test", userToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Test email sent successfully", body["message"])
	assert.NotNil(t, body["quote"])
	assert.Equal(t, []string{"user@example.com"}, env.mailer.sentTo)
}

func TestTestEmailSendFailure(t *testing.T) {
	env := newTestEnv(t)
	seedQuote(env.store, "q1", "Quote one text here", "Author One")
	env.mailer.err = errors.New("ses rejected sender")

	w := doJSON(t, env.router, http.MethodPost, "/subscriptions/test", userToken(t), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to send test email", decodeBody(t, w)["error"])
}

func TestTestNotificationNeedsTokens(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/notifications/test", userToken(t), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No subscription found", decodeBody(t, w)["message"])

	env.store.subs["user@example.com"] = &types.Subscription{
		Email:        "user@example.com",
		IsSubscribed: true,
	}
	w = doJSON(t, env.router, http.MethodPost, "/notifications/test", userToken(t), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No FCM token found. Please enable push notifications first.", decodeBody(t, w)["error"])
}

func TestTestNotification(t *testing.T) {
	env := newTestEnv(t)
	seedQuote(env.store, "q1", "Quote one text here", "Author One")
	env.store.subs["user@example.com"] = &types.Subscription{
		Email:        "user@example.com",
		IsSubscribed: true,
		Preferences: types.NotificationPreferences{
			FCMTokens: map[string]string{"android": "tok-1", "ios": "tok-2"},
		},
	}

	w := doJSON(t, env.router, http.MethodPost, "/notifications/test", userToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Test notification sent successfully", decodeBody(t, w)["message"])
}

func TestTestNotificationAllSendsFail(t *testing.T) {
	env := newTestEnv(t)
	seedQuote(env.store, "q1", "Quote one text here", "Author One")
	env.store.subs["user@example.com"] = &types.Subscription{
		Email: "user@example.com",
		Preferences: types.NotificationPreferences{
			FCMTokens: map[string]string{"android": "dead-token"},
		},
	}
	env.pusher.errs = []string{"Error sending to android: unregistered"}

	w := doJSON(t, env.router, http.MethodPost, "/notifications/test", userToken(t), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Failed to send test notification", body["error"])
	assert.Len(t, body["details"], 1)
}

func TestAdminListSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	env.store.subs["a@example.com"] = &types.Subscription{
		Email: "a@example.com", IsSubscribed: true, CreatedAt: "2024-01-01T00:00:00Z",
	}
	env.store.subs["b@example.com"] = &types.Subscription{
		Email: "b@example.com", IsSubscribed: false, CreatedAt: "2024-02-01T00:00:00Z",
	}

	w := doJSON(t, env.router, http.MethodGet, "/admin/subscriptions", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(1), body["active"])

	subs := body["subscribers"].([]any)
	require.Len(t, subs, 2)
	assert.Equal(t, "b@example.com", subs[0].(map[string]any)["email"])
}
