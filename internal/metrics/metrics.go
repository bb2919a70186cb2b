// Package metrics holds the prometheus collectors for the collections API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collections_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CasesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_cases_created_total",
			Help: "Total number of cases opened, by priority tier",
		},
		[]string{"priority"},
	)

	StatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_case_status_changes_total",
			Help: "Total number of committed case status changes",
		},
		[]string{"new_status"},
	)

	Assignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_case_assignments_total",
			Help: "Total number of case assignments and reassignments",
		},
		[]string{"kind"},
	)

	IntakeRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_intake_rows_total",
			Help: "Total number of intake CSV rows processed, by result",
		},
		[]string{"result"},
	)
)

// Label values for Assignments and IntakeRows.
const (
	KindAssign   = "assign"
	KindReassign = "reassign"

	ResultCreated = "created"
	ResultFailed  = "failed"
)
