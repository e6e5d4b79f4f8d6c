// Package metrics defines and registers all custom Prometheus metrics for the
// board API. Metrics are registered with the default registry on import and
// exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "board"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthResolutionsTotal counts resolved requests.
// Label:
//   - source: "access_token", "api_key" or "anonymous"
var AuthResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_resolutions_total",
		Help:      "Total number of requests by the credential that identified the actor.",
	},
	[]string{"source"},
)

// AccessTokensReissuedTotal counts access tokens minted from an API key.
var AccessTokensReissuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_tokens_reissued_total",
		Help:      "Total number of access tokens silently reissued from an API key.",
	},
)

// AuthResolutionErrorsTotal counts requests whose actor lookup failed in the store.
var AuthResolutionErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_resolution_errors_total",
		Help:      "Total number of requests rejected because the actor store failed.",
	},
)

// AuthorizationDenialsTotal counts requests refused by the access policy.
// Label:
//   - method: HTTP method of the refused request
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests refused by the access policy.",
	},
	[]string{"method"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// PostsCreatedTotal counts created posts.
// Label:
//   - published: "true" or "false"
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by initial publication state.",
	},
	[]string{"published"},
)

// CommentsCreatedTotal counts created comments.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures handler latency.
// Labels:
//   - method, route (the registered path pattern), status
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// Middleware observes HTTPRequestDuration for every request.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			// Render errors here so the recorded status is the one sent.
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
