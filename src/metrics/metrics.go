
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

// Package metrics provides Prometheus metrics. All metrics follow
// Prometheus naming conventions with an ownbin_ prefix.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownbin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	PastesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ownbin_pastes_created_total",
			Help: "Total number of pastes created",
		},
	)

	PastesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ownbin_pastes_deleted_total",
			Help: "Total number of pastes deleted",
		},
	)

	AuthResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownbin_auth_results_total",
			Help: "Authentication outcomes by result (allowed, challenged, forbidden, malformed)",
		},
		[]string{"result"},
	)

	BlockedIPsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ownbin_blocked_ips_total",
			Help: "Total number of client addresses blocked for repeated authentication failures",
		},
	)
)

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
