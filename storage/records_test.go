package storage

import (
	"testing"

	"quoteme/config"
	"quoteme/types"
)

func TestIsQuoteRecord(t *testing.T) {
	cases := []struct {
		name string
		row  types.Quote
		want bool
	}{
		{
			name: "real quote",
			row:  types.Quote{ID: "q1", Quote: "know thyself", Author: "socrates"},
			want: true,
		},
		{
			name: "tags metadata sentinel",
			row:  types.Quote{ID: config.TagsMetadataID, Quote: "x", Author: "y"},
			want: false,
		},
		{
			name: "image generation job",
			row:  types.Quote{ID: "job-1", Quote: "x", Author: "y", RecordType: config.ImageJobRecordType},
			want: false,
		},
		{
			name: "stray oauth flag row",
			row:  types.Quote{ID: config.OAuthFlagPrefix + "1700000000_abc", Quote: "x", Author: "y"},
			want: false,
		},
		{
			name: "missing quote text still a quote row",
			row:  types.Quote{ID: "q2", Author: "someone"},
			want: true,
		},
		{
			name: "missing author still a quote row",
			row:  types.Quote{ID: "q3", Quote: "something"},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsQuoteRecord(tc.row); got != tc.want {
				t.Fatalf("IsQuoteRecord(%+v) = %v, want %v", tc.row, got, tc.want)
			}
		})
	}
}

func TestIsComplete(t *testing.T) {
	if !IsComplete(types.Quote{ID: "q1", Quote: "text", Author: "someone"}) {
		t.Fatal("quote with text and author should be complete")
	}
	if IsComplete(types.Quote{ID: "q2", Author: "someone"}) {
		t.Fatal("quote without text should be incomplete")
	}
	if IsComplete(types.Quote{ID: "q3", Quote: "text"}) {
		t.Fatal("quote without author should be incomplete")
	}
}

func TestFilterQuotes(t *testing.T) {
	rows := []types.Quote{
		{ID: "q1", Quote: "first", Author: "a"},
		{ID: config.TagsMetadataID},
		{ID: "q2", Quote: "second", Author: "b"},
		{ID: "job-1", Quote: "x", Author: "y", RecordType: config.ImageJobRecordType},
		{ID: "q3", Quote: "author pending"},
	}

	quotes := FilterQuotes(rows)
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}
	if quotes[0].ID != "q1" || quotes[1].ID != "q2" || quotes[2].ID != "q3" {
		t.Fatalf("expected q1, q2, q3 in order; got %+v", quotes)
	}
}
