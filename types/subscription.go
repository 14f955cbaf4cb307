package types

// NotificationPreferences holds per-user delivery preferences. FCMTokens is
// keyed by platform ("android", "ios", "web"). DeliveryHour is a pointer so
// rows written before the preference existed stay distinguishable from an
// explicit midnight (0); readers apply the default for nil.
type NotificationPreferences struct {
	DeliveryHour *int              `json:"deliveryHour,omitempty" dynamodbav:"deliveryHour,omitempty"`
	FCMTokens    map[string]string `json:"fcmTokens,omitempty" dynamodbav:"fcmTokens,omitempty"`
}

// Subscription is a daily-nugget subscription keyed by email.
type Subscription struct {
	Email          string                  `json:"email" dynamodbav:"email"`
	IsSubscribed   bool                    `json:"is_subscribed" dynamodbav:"is_subscribed"`
	DeliveryMethod string                  `json:"delivery_method" dynamodbav:"delivery_method"`
	Timezone       string                  `json:"timezone" dynamodbav:"timezone"`
	Preferences    NotificationPreferences `json:"notification_preferences" dynamodbav:"notificationPreferences"`
	CreatedAt      string                  `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	UpdatedAt      string                  `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}
