package client

import (
	"context"
	"net/http"
)

// DuplicateMatch is one stored quote that matched the candidate.
type DuplicateMatch struct {
	ID          string `json:"id"`
	Quote       string `json:"quote"`
	Author      string `json:"author"`
	CreatedAt   string `json:"created_at,omitempty"`
	MatchReason string `json:"match_reason"`
}

// DuplicateCheckResult is the API's duplicate-check response.
type DuplicateCheckResult struct {
	IsDuplicate    bool             `json:"is_duplicate"`
	DuplicateCount int              `json:"duplicate_count"`
	Duplicates     []DuplicateMatch `json:"duplicates"`
	Message        string           `json:"message"`
}

// CheckDuplicate runs a candidate quote through the duplicate detector.
func (c *Client) CheckDuplicate(ctx context.Context, quote, author string) (*DuplicateCheckResult, error) {
	payload := map[string]string{
		"quote":  quote,
		"author": author,
	}

	var result DuplicateCheckResult
	if err := c.doJSONRequest(ctx, http.MethodPost, "/admin/check-duplicate", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health pings the API.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodGet, "/api/health", nil, nil)
}
