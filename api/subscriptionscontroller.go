package api

import (
	"math/rand"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"quoteme/config"
	"quoteme/nuggets"
	"quoteme/types"
)

func (s *Server) registerSubscriptionRoutes(r *gin.Engine) {
	g := r.Group("/subscriptions", s.requireClaims())
	g.GET("", s.handleGetSubscription)
	g.PUT("", s.handleUpdateSubscription)
	g.DELETE("", s.handleDeleteSubscription)
	g.POST("/test", s.handleTestEmail)

	r.POST("/notifications/test", s.requireClaims(), s.handleTestNotification)
}

func subscriberEmail(c *gin.Context) string {
	return claimsFrom(c).Email
}

func (s *Server) handleGetSubscription(c *gin.Context) {
	sub, err := s.store.GetSubscription(c.Request.Context(), subscriberEmail(c))
	if err != nil {
		log.Error("failed to load subscription", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No subscription found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

type prefsRequest struct {
	DeliveryHour *int              `json:"deliveryHour"`
	FCMTokens    map[string]string `json:"fcmTokens"`
}

type subscriptionRequest struct {
	IsSubscribed   *bool         `json:"is_subscribed"`
	DeliveryMethod string        `json:"delivery_method"`
	Timezone       string        `json:"timezone"`
	Preferences    *prefsRequest `json:"notification_preferences"`
}

// handleUpdateSubscription upserts the caller's subscription, filling
// defaults for anything the app omitted.
func (s *Server) handleUpdateSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	email := subscriberEmail(c)
	ctx := c.Request.Context()

	existing, err := s.store.GetSubscription(ctx, email)
	if err != nil {
		log.Error("failed to load subscription", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := nowStamp()
	defaultHour := config.DefaultDeliveryHour
	sub := &types.Subscription{
		Email:          email,
		IsSubscribed:   true,
		DeliveryMethod: "email",
		Timezone:       config.DefaultTimezone,
		Preferences: types.NotificationPreferences{
			DeliveryHour: &defaultHour,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		sub.CreatedAt = existing.CreatedAt
		sub.Preferences.FCMTokens = existing.Preferences.FCMTokens
	}

	if req.IsSubscribed != nil {
		sub.IsSubscribed = *req.IsSubscribed
	}
	if req.DeliveryMethod != "" {
		sub.DeliveryMethod = req.DeliveryMethod
	}
	if req.Timezone != "" {
		sub.Timezone = req.Timezone
	}
	if req.Preferences != nil {
		if req.Preferences.DeliveryHour != nil {
			sub.Preferences.DeliveryHour = req.Preferences.DeliveryHour
		}
		if req.Preferences.FCMTokens != nil {
			sub.Preferences.FCMTokens = req.Preferences.FCMTokens
		}
	}

	if err := s.store.PutSubscription(ctx, sub); err != nil {
		log.Error("failed to store subscription", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription updated successfully",
		"subscription": sub,
	})
}

func (s *Server) handleDeleteSubscription(c *gin.Context) {
	if err := s.store.DeleteSubscription(c.Request.Context(), subscriberEmail(c)); err != nil {
		log.Error("failed to delete subscription", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted successfully"})
}

// dailyQuote picks a random quote for on-demand tests. Scheduled delivery has
// its own picker inside the deliverer.
func (s *Server) dailyQuote(c *gin.Context) (*types.Quote, bool) {
	quotes, err := s.store.AllQuotes(c.Request.Context())
	if err != nil {
		log.Error("failed to load quotes", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	q, err := nuggets.RandomQuote(quotes, rng)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No quotes available"})
		return nil, false
	}
	return q, true
}

func (s *Server) handleTestEmail(c *gin.Context) {
	if s.mailer == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email delivery is not configured"})
		return
	}

	q, ok := s.dailyQuote(c)
	if !ok {
		return
	}

	email := subscriberEmail(c)
	if err := s.mailer.SendDaily(c.Request.Context(), email, *q); err != nil {
		log.Error("failed to send test email", "to", email, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send test email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Test email sent successfully",
		"quote":   q,
	})
}

func (s *Server) handleTestNotification(c *gin.Context) {
	if s.pusher == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Push notifications are not configured"})
		return
	}

	email := subscriberEmail(c)
	sub, err := s.store.GetSubscription(c.Request.Context(), email)
	if err != nil {
		log.Error("failed to load subscription", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No subscription found"})
		return
	}
	if len(sub.Preferences.FCMTokens) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No FCM token found. Please enable push notifications first."})
		return
	}

	q, ok := s.dailyQuote(c)
	if !ok {
		return
	}

	sent, errs := s.pusher.SendTest(c.Request.Context(), sub.Preferences.FCMTokens, *q)
	if sent == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send test notification",
			"details": errs,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Test notification sent successfully",
		"quote":   q,
		"errors":  errs,
	})
}

// handleListSubscriptions backs the admin subscriber dashboard.
func (s *Server) handleListSubscriptions(c *gin.Context) {
	subs, err := s.store.AllSubscriptions(c.Request.Context())
	if err != nil {
		log.Error("failed to list subscriptions", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].CreatedAt > subs[j].CreatedAt
	})

	active := 0
	for _, sub := range subs {
		if sub.IsSubscribed {
			active++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"subscribers": subs,
		"total":       len(subs),
		"active":      active,
	})
}
