package converter

import (
	"unicode/utf8"

	"github.com/harrison/jsontable/internal/jsonvalue"
)

// Limits bounds the work a conversion may do regardless of input size.
// A Limits value is copied into the Converter at construction and never
// changes afterwards.
type Limits struct {
	// MaxObjects is how many leading elements header extraction scans.
	MaxObjects int
	// MaxKeys caps the number of distinct headers.
	MaxKeys int
	// MaxKeyLength is the longest key, in characters, accepted as a header.
	MaxKeyLength int
	// DefaultCeiling is the implicit row cap used when no explicit limit
	// is given.
	DefaultCeiling int
}

// DefaultLimits returns the stock bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxObjects:     10000,
		MaxKeys:        1000,
		MaxKeyLength:   255,
		DefaultCeiling: 10000,
	}
}

// HeaderExtractor derives column headers from a sequence of objects with
// bounded cost.
type HeaderExtractor struct {
	maxObjects   int
	maxKeys      int
	maxKeyLength int
}

// NewHeaderExtractor creates an extractor using the header bounds in limits.
func NewHeaderExtractor(limits Limits) *HeaderExtractor {
	return &HeaderExtractor{
		maxObjects:   limits.MaxObjects,
		maxKeys:      limits.MaxKeys,
		maxKeyLength: limits.MaxKeyLength,
	}
}

// Extract returns the distinct keys of items in first-seen order. Only the
// first maxObjects items are scanned and non-objects are skipped. Keys that
// are empty or longer than maxKeyLength are ignored. Once maxKeys headers
// are collected, extraction stops.
func (h *HeaderExtractor) Extract(items []jsonvalue.Value) []string {
	headers := []string{}
	if h.maxKeys <= 0 {
		return headers
	}

	seen := make(map[string]struct{})
	scan := items
	if len(scan) > h.maxObjects {
		scan = scan[:max(h.maxObjects, 0)]
	}

	for _, item := range scan {
		obj, ok := item.(*jsonvalue.Object)
		if !ok {
			continue
		}

		full := false
		obj.Each(func(key string, _ jsonvalue.Value) bool {
			if key == "" || utf8.RuneCountInString(key) > h.maxKeyLength {
				return true
			}
			if _, dup := seen[key]; dup {
				return true
			}
			seen[key] = struct{}{}
			headers = append(headers, key)
			if len(headers) >= h.maxKeys {
				full = true
				return false
			}
			return true
		})
		if full {
			break
		}
	}

	return headers
}
