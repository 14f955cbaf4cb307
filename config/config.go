package config

import (
	"os"
	"strconv"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DynamoDB table names.
	QuotesTable        string
	TagsTable          string
	SubscriptionsTable string

	// AWS client settings (empty values fall back to the default chain).
	AWSRegion  string
	AWSProfile string

	// Export destination bucket.
	ExportBucket string

	// Email delivery.
	SenderEmail string

	// Push delivery: raw service-account JSON for FCM.
	FCMServiceAccountJSON string

	// Redis for one-time OAuth flags.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Cognito hosted-UI settings for the OAuth callback.
	CognitoDomain string
	ClientID      string
	RedirectURI   string

	// Public-facing URLs baked into pages and emails.
	WebAppURL  string
	AppScheme  string
	CORSOrigin string
}

// Load reads configuration from the environment, applying the same defaults
// the deployment has always used.
func Load() *Config {
	return &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		QuotesTable:           getEnvOrDefault("QUOTES_TABLE_NAME", "quote-me-quotes"),
		TagsTable:             getEnvOrDefault("TAGS_TABLE_NAME", "quote-me-tags"),
		SubscriptionsTable:    getEnvOrDefault("SUBSCRIPTIONS_TABLE_NAME", "quote-me-subscriptions"),
		AWSRegion:             os.Getenv("AWS_REGION"),
		AWSProfile:            os.Getenv("AWS_PROFILE"),
		ExportBucket:          getEnvOrDefault("EXPORT_BUCKET", "quote-me-app-db-exports"),
		SenderEmail:           getEnvOrDefault("SENDER_EMAIL", "noreply@anystupididea.com"),
		FCMServiceAccountJSON: os.Getenv("FCM_SERVICE_ACCOUNT_JSON"),
		RedisAddr:             getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASS"),
		RedisDB:               getEnvIntOrDefault("REDIS_DB", 0),
		CognitoDomain:         os.Getenv("COGNITO_DOMAIN"),
		ClientID:              os.Getenv("COGNITO_CLIENT_ID"),
		RedirectURI:           os.Getenv("OAUTH_REDIRECT_URI"),
		WebAppURL:             getEnvOrDefault("WEB_APP_URL", "https://quote-me.anystupididea.com"),
		AppScheme:             getEnvOrDefault("APP_SCHEME", "quoteme://"),
		CORSOrigin:            getEnvOrDefault("CORS_ORIGIN", "*"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
