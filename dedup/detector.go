package dedup

import (
	"context"
	"fmt"

	"quoteme/config"
	"quoteme/types"
)

// Match describes one stored quote that duplicates a candidate.
type Match struct {
	ID          string `json:"id"`
	Quote       string `json:"quote"`
	Author      string `json:"author"`
	CreatedAt   string `json:"created_at,omitempty"`
	MatchReason string `json:"match_reason"`
}

// Scanner yields stored quote records one page at a time. more is false once
// the underlying table is exhausted; a scanner cannot be restarted.
type Scanner interface {
	Next(ctx context.Context) (page []types.Quote, more bool, err error)
}

// Source opens a fresh scan over the quote corpus.
type Source interface {
	ScanQuotes(ctx context.Context) Scanner
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) Scanner

func (f SourceFunc) ScanQuotes(ctx context.Context) Scanner { return f(ctx) }

// Detector runs duplicate classification for a candidate against every
// stored quote.
type Detector struct {
	source Source
}

func NewDetector(source Source) *Detector {
	return &Detector{source: source}
}

// FindDuplicates scans the whole corpus and returns every match in encounter
// order. Metadata rows and records missing quote or author text are skipped.
// The scan is a single attempt: any page failure aborts with an error and the
// caller decides whether that failure blocks its operation.
func (d *Detector) FindDuplicates(ctx context.Context, quote, author string) ([]Match, error) {
	scan := d.source.ScanQuotes(ctx)
	var matches []Match
	for {
		page, more, err := scan.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan quotes: %w", err)
		}
		for _, rec := range page {
			if rec.ID == config.TagsMetadataID || rec.Quote == "" || rec.Author == "" {
				continue
			}
			dup, reason := Classify(quote, author, rec.Quote, rec.Author)
			if !dup {
				continue
			}
			matches = append(matches, Match{
				ID:          rec.ID,
				Quote:       rec.Quote,
				Author:      rec.Author,
				CreatedAt:   rec.CreatedAt,
				MatchReason: reason,
			})
		}
		if !more {
			return matches, nil
		}
	}
}
