// Package entity defines the core domain entities for the digest pipeline.
// It contains the fundamental business objects such as ContentItem, FeedSource,
// ProcessedRecord and DigestBatch, along with their validation rules and
// domain-specific errors.
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// SourceKind categorizes a feed source by the type of content it carries.
type SourceKind string

const (
	// KindNews identifies news article feeds.
	KindNews SourceKind = "news"
	// KindPodcast identifies podcast episode feeds.
	KindPodcast SourceKind = "podcast"
)

// Valid reports whether the source kind is one of the known values.
func (k SourceKind) Valid() bool {
	return k == KindNews || k == KindPodcast
}

// ContentItem represents a single entry extracted from an RSS/Atom feed.
// Items are created by the feed collector and are immutable afterwards;
// the URL acts as the unique key for deduplication.
type ContentItem struct {
	Title       string
	URL         string
	Description string
	SourceName  string
	SourceKind  SourceKind
	PublishedAt time.Time
}

// FeedSource describes a configured feed to collect from.
type FeedSource struct {
	Name string     `yaml:"name"`
	URL  string     `yaml:"url"`
	Kind SourceKind `yaml:"kind"`
}

// Validate checks that the feed source definition is usable.
func (s *FeedSource) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "feed name is required"}
	}
	if s.URL == "" {
		return &ValidationError{Field: "url", Message: "feed url is required"}
	}
	if !s.Kind.Valid() {
		return &ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("invalid kind %q (must be news or podcast)", s.Kind),
		}
	}
	return nil
}

// ProcessedRecord marks a content URL as handled by a previous run.
// Records are owned by the dedup store, never mutated after creation, and
// expire after the retention window.
type ProcessedRecord struct {
	ContentKey       string
	URL              string
	Title            string
	SourceName       string
	SourceKind       SourceKind
	SummaryGenerated bool
	ProcessedAt      time.Time
	ExpireAt         time.Time
}

// ProcessedRetention is how long a processed record suppresses reprocessing.
const ProcessedRetention = 90 * 24 * time.Hour

// ContentKey derives the stable dedup key for a content URL.
func ContentKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
