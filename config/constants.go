package config

import "time"

// Storage Constants
const (
	// TagsMetadataID is the sentinel row in the quotes table that aggregates
	// all known tag names. It must never be treated as a quote.
	TagsMetadataID = "TAGS_METADATA"

	// ImageJobRecordType marks background image-generation job rows that
	// share the quotes table.
	ImageJobRecordType = "image_generation_job"

	// OAuthFlagPrefix prefixes one-time OAuth success flag keys.
	OAuthFlagPrefix = "oauth_success_"
)

// Duplicate Check Constants
const (
	// MaxReportedDuplicates caps how many matches are returned to callers.
	// The reported duplicate_count always reflects the true total.
	MaxReportedDuplicates = 5
)

// Listing Constants
const (
	// DefaultListLimit is the page size when the caller does not pass one.
	DefaultListLimit = 50

	// MaxListLimit caps the page size for admin listings and search.
	MaxListLimit = 1000
)

// Delivery Constants
const (
	// DefaultDeliveryHour is the local hour (24h clock) nuggets are sent at
	// when a subscriber has not chosen one.
	DefaultDeliveryHour = 8

	// DefaultTimezone is assumed for subscribers without a stored timezone.
	DefaultTimezone = "America/New_York"

	// MaxEmailTags caps how many tags appear in the daily email.
	MaxEmailTags = 5
)

// Export Constants
const (
	// ExportURLTTL is how long presigned export download links stay valid.
	ExportURLTTL = 48 * time.Hour
)

// OAuth Constants
const (
	// OAuthFlagTTL is the lifetime of a one-time OAuth success flag.
	OAuthFlagTTL = 5 * time.Minute
)
