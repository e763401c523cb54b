package model

import (
	"context"
	"time"
)

// JobURLBase is the prefix for the canonical listing URL; the full URL is
// JobURLBase + jobId.
const JobURLBase = "https://careers.microsoft.com/us/en/job/"

// Location describes where a listing is based. A listing either carries a
// combined primary-location string ("City, ST, Country") that is split into
// its parts, or separate city/country fields from the older response shape.
type Location struct {
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Country         string `json:"country,omitempty"`
	PrimaryLocation string `json:"primaryLocation,omitempty"`

	// MultiLocationArray lists every posting location in upstream order.
	// Always present, empty when the listing has a single location.
	MultiLocationArray []Location `json:"multiLocationArray"`
}

// JobListing is the canonical representation of one job listing, regardless
// of which upstream response shape it came from. Listings are immutable once
// inserted into the merge store.
type JobListing struct {
	JobID           string            `json:"jobId"` // digits, unique per listing, the dedup key
	Title           string            `json:"title"`
	PostedDate      string            `json:"postedDate"` // opaque upstream timestamp, never reparsed
	Location        Location          `json:"location"`
	Discipline      string            `json:"discipline"`  // upstream discipline or subCategory
	CareerStage     string            `json:"careerStage"` // derived from the title
	URL             string            `json:"url"`
	ExtraProperties map[string]string `json:"extraProperties,omitempty"`
}

// RawRecord is one job listing as decoded from an upstream payload, before
// normalization into a JobListing.
type RawRecord map[string]any

// Artifact is the serialized output of one pipeline run.
type Artifact struct {
	LastUpdated time.Time    `json:"lastUpdated"`
	Jobs        []JobListing `json:"jobs"`
}

// RunSummary records the outcome of one pipeline run.
type RunSummary struct {
	StartedAt      time.Time
	Duration       time.Duration
	Jobs           int
	Keywords       int
	FailedKeywords []string
}

// KeywordFetcher produces every raw record for one search keyword. The
// keyword is passed URL-encoded, exactly as configured.
type KeywordFetcher interface {
	FetchKeyword(ctx context.Context, keyword string) ([]RawRecord, error)
}

// ArtifactPublisher hands the finished corpus to durable storage.
type ArtifactPublisher interface {
	Publish(artifact *Artifact) error
}

// RunRecorder archives a summary of each completed run.
type RunRecorder interface {
	RecordRun(sum RunSummary) error
}
