// Package ingest normalizes heterogeneous review input (JSON bodies, CSV rows
// with inconsistent header naming) into canonical domain.Review records.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
)

// fieldAliases maps each canonical field to the ordered list of accepted
// input keys. The first alias that is present with a non-empty value wins;
// later aliases are fallbacks.
var fieldAliases = map[string][]string{
	"rating":         {"rating", "RATING"},
	"source":         {"source", "SOURCE"},
	"sentimentScore": {"sentimentScore", "sentiment_score", "SENTIMENT_SCORE"},
	"sentimentLabel": {"sentimentLabel", "sentiment_label", "SENTIMENT_LABEL"},
	"text":           {"text", "reviewText", "REVIEW_TEXT"},
	"createdAt":      {"createdAt", "CREATED_AT"},
}

// timeLayouts are the createdAt formats accepted from input records.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize converts a raw untyped record into a canonical Review for the
// given store. It never fails: unparseable numeric fields normalize to
// absent (nil), source defaults to "Unknown", text to the empty string, and
// an absent or unparseable createdAt is left zero for the store to assign
// ingestion time.
func Normalize(raw map[string]any, storeID int64) domain.Review {
	r := domain.Review{
		StoreID: storeID,
		Source:  domain.DefaultSource,
		Text:    "",
	}

	r.Rating = parseFloat(lookup(raw, "rating"))
	if src := parseString(lookup(raw, "source")); src != "" {
		r.Source = src
	}
	r.SentimentScore = parseFloat(lookup(raw, "sentimentScore"))
	if label := parseString(lookup(raw, "sentimentLabel")); label != "" {
		r.SentimentLabel = &label
	}
	r.Text = parseString(lookup(raw, "text"))
	r.CreatedAt = parseTime(lookup(raw, "createdAt"))

	return r
}

// HasContent reports whether a normalized review carries anything worth
// storing: a valid numeric rating or non-whitespace text. Bulk imports skip
// rows that fail this check so blank CSV rows never become empty reviews.
func HasContent(r domain.Review) bool {
	return r.Rating != nil || strings.TrimSpace(r.Text) != ""
}

// lookup resolves a canonical field against the alias table. The first alias
// present in the record with a non-empty-string value is returned.
func lookup(raw map[string]any, field string) any {
	for _, alias := range fieldAliases[field] {
		v, ok := raw[alias]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v
	}
	return nil
}

// parseFloat converts an input value to a float pointer. Empty strings,
// non-numeric strings, and non-finite values all normalize to nil, never
// zero.
func parseFloat(v any) *float64 {
	var f float64
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseString converts an input value to a string, trimming whitespace-only
// padding around CSV cells.
func parseString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// parseTime accepts a time.Time or a string in one of the supported layouts.
// Anything else yields the zero time, which the store replaces with ingestion
// time on insert.
func parseTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
