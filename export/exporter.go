package export

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"quoteme/config"
	"quoteme/storage"
	"quoteme/types"
)

// QuoteLister is the storage surface exports read from.
type QuoteLister interface {
	AllQuotes(ctx context.Context) ([]types.Quote, error)
}

// ObjectStore is the S3 surface exports write to.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType, cacheControl string) error
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration, contentDisposition string) (string, error)
}

// Exporter snapshots the quote corpus into downloadable archives.
type Exporter struct {
	quotes  QuoteLister
	objects ObjectStore
	bucket  string
}

func New(quotes QuoteLister, objects ObjectStore, bucket string) *Exporter {
	return &Exporter{quotes: quotes, objects: objects, bucket: bucket}
}

// Statistics summarizes a snapshot for the export metadata block.
type Statistics struct {
	TotalQuotes   int      `json:"total_quotes"`
	UniqueAuthors int      `json:"unique_authors"`
	UniqueTags    int      `json:"unique_tags"`
	Authors       []string `json:"authors"`
	Tags          []string `json:"tags"`
}

// Metadata describes who exported what and when.
type Metadata struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Format    string `json:"format"`
	Type      string `json:"type"`
	Statistics
}

// Payload is a full snapshot ready for encoding.
type Payload struct {
	Metadata Metadata      `json:"export_metadata"`
	Quotes   []types.Quote `json:"quotes"`
}

// Result reports a completed S3 upload.
type Result struct {
	DownloadURL    string `json:"download_url"`
	Key            string `json:"s3_key"`
	ExpiresIn      string `json:"expires_in"`
	OriginalSize   int    `json:"original"`
	CompressedSize int    `json:"compressed"`
}

// ComputeStatistics derives the author and tag rollups for a snapshot.
// Author names are deduplicated case-sensitively, matching how they are
// stored.
func ComputeStatistics(quotes []types.Quote) Statistics {
	authorSet := make(map[string]bool)
	tagSet := make(map[string]bool)
	for _, q := range quotes {
		if q.Author != "" {
			authorSet[q.Author] = true
		}
		for _, t := range q.Tags {
			if t != "" {
				tagSet[t] = true
			}
		}
	}

	authors := make([]string, 0, len(authorSet))
	for a := range authorSet {
		authors = append(authors, a)
	}
	sort.Strings(authors)

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	return Statistics{
		TotalQuotes:   len(quotes),
		UniqueAuthors: len(authors),
		UniqueTags:    len(tags),
		Authors:       authors,
		Tags:          tags,
	}
}

// BuildPayload snapshots the corpus, newest quotes first. Rows missing text
// or attribution stay visible in the admin UI but are left out of archives.
func (e *Exporter) BuildPayload(ctx context.Context, user, exportType, format string) (*Payload, error) {
	all, err := e.quotes.AllQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quotes for export: %w", err)
	}

	quotes := make([]types.Quote, 0, len(all))
	for _, q := range all {
		if storage.IsComplete(q) {
			quotes = append(quotes, q)
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt > quotes[j].CreatedAt
	})

	return &Payload{
		Metadata: Metadata{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			User:       user,
			Format:     format,
			Type:       exportType,
			Statistics: ComputeStatistics(quotes),
		},
		Quotes: quotes,
	}, nil
}

// Encode renders the payload in the requested format. JSON carries the full
// metadata block; CSV is rows only, for spreadsheet imports.
func (p *Payload) Encode(format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(p, "", "  ")
	case "csv":
		return encodeCSV(p.Quotes)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func encodeCSV(quotes []types.Quote) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "quote", "author", "tags", "created_at", "created_by"}); err != nil {
		return nil, err
	}
	for _, q := range quotes {
		row := []string{q.ID, q.Quote, q.Author, strings.Join(q.Tags, ", "), q.CreatedAt, q.CreatedBy}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Upload encodes, gzips and stores the payload, returning a presigned
// download link valid for 48 hours.
func (e *Exporter) Upload(ctx context.Context, p *Payload, user, exportType, format string) (*Result, error) {
	raw, err := p.Encode(format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, fmt.Errorf("compress export: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compress export: %w", err)
	}

	compressed := buf.Bytes()
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	key := fmt.Sprintf("exports/%s/%s/%s.%s.gz", user, stamp, exportType, format)

	if err := e.objects.Put(ctx, e.bucket, key, bytes.NewReader(compressed), "application/gzip", ""); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	filename := fmt.Sprintf("%s-export-%s.%s.gz", exportType, stamp, format)
	url, err := e.objects.PresignGet(ctx, e.bucket, key, config.ExportURLTTL,
		fmt.Sprintf("attachment; filename=%q", filename))
	if err != nil {
		return nil, err
	}

	return &Result{
		DownloadURL:    url,
		Key:            key,
		ExpiresIn:      "48 hours",
		OriginalSize:   len(raw),
		CompressedSize: len(compressed),
	}, nil
}
