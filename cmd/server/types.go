package main

import (
	"fmt"
	"math"
	"time"
)

// Signal size limits for request validation
const (
	// MaxSignalHardLimit is the absolute maximum samples accepted per
	// signal (~80 seconds at a 200 Hz armband rate)
	MaxSignalHardLimit = 16384

	// SignalWarningThreshold triggers logging for unusually long signals
	SignalWarningThreshold = 4096
)

// MatchRequest is the request body for POST /api/match
type MatchRequest struct {
	// Signal is the candidate window, one amplitude per sample
	Signal []float64 `json:"signal" binding:"required"`
}

// Validate checks if the request is valid
func (r *MatchRequest) Validate() error {
	return validateSignal(r.Signal)
}

// AddSampleRequest is the request body for POST /api/labels/{label}/samples
type AddSampleRequest struct {
	Signal []float64 `json:"signal" binding:"required"`
}

// Validate checks if the request is valid
func (r *AddSampleRequest) Validate() error {
	return validateSignal(r.Signal)
}

// validateSignal rejects empty, oversized, or non-finite payloads
// before they reach the matcher. The matcher treats non-finite
// distances as unusable references; a non-finite candidate sample is
// a client error instead.
func validateSignal(sig []float64) error {
	if len(sig) == 0 {
		return fmt.Errorf("signal cannot be empty")
	}
	if len(sig) > MaxSignalHardLimit {
		return fmt.Errorf("signal too long: %d samples (maximum: %d)", len(sig), MaxSignalHardLimit)
	}
	for i, v := range sig {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("sample %d is not a finite number", i)
		}
	}
	return nil
}

// MatchResponse is the response for POST /api/match. Distance is
// omitted when no reference matched, since the internal +Inf sentinel
// has no JSON representation.
type MatchResponse struct {
	Label          string   `json:"label"`
	Known          bool     `json:"known"`
	Distance       *float64 `json:"distance,omitempty"`
	Compared       int      `json:"compared"`
	LengthMismatch int      `json:"length_mismatch"`
	NonFinite      int      `json:"non_finite"`
}

// AddSampleResponse is the response for successful sample addition
type AddSampleResponse struct {
	Message string `json:"message"`
	Label   string `json:"label"`
	Stored  int    `json:"stored"`
}

// LabelDTO represents a gesture label in API responses
type LabelDTO struct {
	Label   string `json:"label"`
	Samples int    `json:"samples"`
}

// ListLabelsResponse is the response for GET /api/labels
type ListLabelsResponse struct {
	Labels []LabelDTO `json:"labels"`
	Count  int        `json:"count"`
}

// DeleteLabelResponse is the response for DELETE /api/labels/{label}
type DeleteLabelResponse struct {
	Message string `json:"message"`
	Label   string `json:"label"`
	Removed int    `json:"removed"`
}

// EventDTO represents one journal event. Distance is omitted for
// mutation events and unknown matches, which the journal stores as -1.
type EventDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Label     string    `json:"label"`
	Distance  *float64  `json:"distance,omitempty"`
	Compared  int       `json:"compared,omitempty"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse is the response for GET /api/history
type HistoryResponse struct {
	Events []EventDTO `json:"events"`
	Count  int        `json:"count"`
}

// MetricsResponse provides server health and dataset metrics.
// EventCounts is present only when journaling is enabled.
type MetricsResponse struct {
	Status         string           `json:"status"`
	DataRoot       string           `json:"data_root"`
	LabelCount     int              `json:"label_count"`
	SignalCount    int              `json:"signal_count"`
	JournalEnabled bool             `json:"journal_enabled"`
	EventCounts    map[string]int64 `json:"event_counts,omitempty"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
