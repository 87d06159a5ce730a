package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every application metric and is what /metrics serves.
var Registry = prometheus.NewRegistry()

var (
	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "brainvault_auth_failures_total",
		Help: "Total number of rejected sign-ins and bearer tokens by reason",
	}, []string{"reason"})

	// ShareResolutions counts public share lookups by outcome.
	ShareResolutions = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "brainvault_share_resolutions_total",
		Help: "Total number of share link resolutions by result",
	}, []string{"result"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "brainvault_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// Auth failure reasons.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonUnknownUser  = "unknown_user"
	ReasonBadPassword  = "bad_password"
)

// Share resolution results.
const (
	ResultHit      = "cache_hit"
	ResultDB       = "db"
	ResultNotFound = "not_found"
)
