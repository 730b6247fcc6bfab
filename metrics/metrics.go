// Package metrics exposes the security counters. The scrape endpoint is
// mounted under /internal/, which the route policy denies to all HTTP
// callers; scraping happens off-process or not at all.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmgate_requests_total",
		Help: "Requests entering the security chain.",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmgate_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})

	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmgate_auth_failures_total",
		Help: "Credential checks that left a request anonymous or rejected it.",
	}, []string{"stage"})
)

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
