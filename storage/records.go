package storage

import (
	"strings"

	"quoteme/config"
	"quoteme/types"
)

// IsQuoteRecord reports whether a stored row is a quote. The quotes table
// also holds the tags metadata sentinel, image-generation job rows and the
// occasional stray flag record; none of those may surface in listings,
// search, exports or duplicate scans. Quote rows with blank text or author
// still count: admins need to see them to fix or delete them.
func IsQuoteRecord(q types.Quote) bool {
	if q.ID == config.TagsMetadataID {
		return false
	}
	if q.RecordType == config.ImageJobRecordType {
		return false
	}
	if strings.HasPrefix(q.ID, config.OAuthFlagPrefix) {
		return false
	}
	return true
}

// IsComplete reports whether a quote row carries both text and attribution.
// Exports only snapshot complete rows.
func IsComplete(q types.Quote) bool {
	return q.Quote != "" && q.Author != ""
}

// FilterQuotes returns only the real quote rows from a raw table scan.
func FilterQuotes(rows []types.Quote) []types.Quote {
	quotes := make([]types.Quote, 0, len(rows))
	for _, row := range rows {
		if IsQuoteRecord(row) {
			quotes = append(quotes, row)
		}
	}
	return quotes
}
