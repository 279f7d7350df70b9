// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Guest lookup results.
const (
	LookupHit    = "hit"
	LookupMiss   = "miss"
	LookupAbsent = "absent"
)

// RSVP submission results.
const (
	SubmissionSuccess   = "success"
	SubmissionFailure   = "failure"
	SubmissionInvalid   = "invalid"
	SubmissionDuplicate = "duplicate"
)

var (
	// GuestLookups counts page loads by guest lookup result (hit|miss|absent).
	GuestLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wedding_guest_lookups_total",
			Help: "Total number of guest id lookups on page load",
		},
		[]string{"result"},
	)

	// RSVPSubmissions counts RSVP submissions by result.
	RSVPSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wedding_rsvp_submissions_total",
			Help: "Total number of RSVP submissions",
		},
		[]string{"result"},
	)

	// RSVPLatency measures delivery to the form collaborator.
	RSVPLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wedding_rsvp_latency_seconds",
			Help:    "Latency of RSVP delivery to the form endpoint",
			Buckets: prometheus.DefBuckets,
		},
	)
)
