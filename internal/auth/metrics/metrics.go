package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for auth and student record operations.
type Metrics struct {
	UsersRegistered        *prometheus.CounterVec
	RegistrationRejections *prometheus.CounterVec
	LoginAttempts          *prometheus.CounterVec
	TokenRefreshes         prometheus.Counter
	AuthFailures           prometheus.Counter
	Logouts                prometheus.Counter
	GradeUpdates           prometheus.Counter
	PermissionDenials      prometheus.Counter
	TRLWriteFailures       prometheus.Counter

	RegisterDurationMs prometheus.Histogram
	LoginDurationMs    prometheus.Histogram
	EndpointLatency    *prometheus.HistogramVec
}

// New registers auth collectors on reg. Passing a fresh prometheus.NewRegistry()
// keeps tests independent of the process-wide default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersRegistered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "universitas_users_registered_total",
			Help: "Total number of accounts registered, by role",
		}, []string{"role"}),
		RegistrationRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "universitas_registration_rejections_total",
			Help: "Total number of rejected registrations, by error code",
		}, []string{"code"}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "universitas_login_attempts_total",
			Help: "Total number of login attempts, by outcome",
		}, []string{"outcome"}),
		TokenRefreshes: f.NewCounter(prometheus.CounterOpts{
			Name: "universitas_token_refreshes_total",
			Help: "Total number of successful access token refreshes",
		}),
		AuthFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "universitas_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		Logouts: f.NewCounter(prometheus.CounterOpts{
			Name: "universitas_logouts_total",
			Help: "Total number of refresh tokens revoked by logout",
		}),
		GradeUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "universitas_grade_updates_total",
			Help: "Total number of student grade updates",
		}),
		PermissionDenials: f.NewCounter(prometheus.CounterOpts{
			Name: "universitas_permission_denials_total",
			Help: "Total number of student record requests rejected for non-instructors",
		}),
		TRLWriteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "universitas_trl_write_failures_total",
			Help: "Total number of token revocation list write failures",
		}),
		RegisterDurationMs: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "universitas_register_duration_ms",
			Help:    "Duration of registration requests in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		LoginDurationMs: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "universitas_login_duration_ms",
			Help:    "Duration of login requests in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "universitas_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementUsersRegistered(role string) {
	m.UsersRegistered.WithLabelValues(role).Inc()
}

func (m *Metrics) IncrementRegistrationRejections(code string) {
	m.RegistrationRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) IncrementLoginAttempts(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementTokenRefreshes() {
	m.TokenRefreshes.Inc()
}

func (m *Metrics) IncrementAuthFailures() {
	m.AuthFailures.Inc()
}

func (m *Metrics) IncrementLogouts() {
	m.Logouts.Inc()
}

func (m *Metrics) IncrementGradeUpdates() {
	m.GradeUpdates.Inc()
}

func (m *Metrics) IncrementPermissionDenials() {
	m.PermissionDenials.Inc()
}

func (m *Metrics) IncrementTRLWriteFailures() {
	m.TRLWriteFailures.Inc()
}

func (m *Metrics) ObserveRegisterDuration(durationMs float64) {
	m.RegisterDurationMs.Observe(durationMs)
}

func (m *Metrics) ObserveLoginDuration(durationMs float64) {
	m.LoginDurationMs.Observe(durationMs)
}

// ObserveEndpointLatency satisfies request.LatencyObserver.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
