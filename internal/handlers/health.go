package handlers

import (
	"context"
	"net/http"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/platform/httpx"
)

// BuildInfo describes the running binary for the health endpoints.
type BuildInfo struct {
	Version     string
	CommitSHA   string
	Environment string
	StartedAt   time.Time
}

// HealthReporter collects the status of downstream dependencies.
type HealthReporter interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}

// HealthHandlers serves the liveness and readiness endpoints.
type HealthHandlers struct {
	build    BuildInfo
	reporter HealthReporter
	clock    func() time.Time
}

// HealthOption customises the health handlers.
type HealthOption func(*HealthHandlers)

// WithHealthBuildInfo attaches build metadata to the health payloads.
func WithHealthBuildInfo(info BuildInfo) HealthOption {
	return func(h *HealthHandlers) {
		h.build = info
	}
}

// WithHealthReporter wires the dependency checks backing /readyz.
func WithHealthReporter(reporter HealthReporter) HealthOption {
	return func(h *HealthHandlers) {
		h.reporter = reporter
	}
}

// WithHealthClock overrides the clock, primarily for tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// NewHealthHandlers constructs the health endpoints.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{clock: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type healthzPayload struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	CommitSHA   string `json:"commitSha,omitempty"`
	Environment string `json:"environment,omitempty"`
	Uptime      string `json:"uptime,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Healthz reports process liveness; it never touches downstream systems.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	now := h.clock().UTC()
	payload := healthzPayload{
		Status:      domain.HealthStatusOK,
		Version:     h.build.Version,
		CommitSHA:   h.build.CommitSHA,
		Environment: h.build.Environment,
		Timestamp:   now.Format(time.RFC3339),
	}
	if !h.build.StartedAt.IsZero() {
		payload.Uptime = now.Sub(h.build.StartedAt).String()
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type readyzPayload struct {
	Status      string                        `json:"status"`
	Checks      map[string]readyzCheckPayload `json:"checks,omitempty"`
	Version     string                        `json:"version,omitempty"`
	Environment string                        `json:"environment,omitempty"`
	GeneratedAt string                        `json:"generatedAt,omitempty"`
}

type readyzCheckPayload struct {
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Readyz runs the dependency checks and reports 503 unless every check is
// healthy enough to serve traffic. A missing reporter degrades to liveness.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.reporter == nil {
		h.Healthz(w, r)
		return
	}

	report, err := h.reporter.Collect(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("health_check_failed", "failed to collect dependency status", http.StatusServiceUnavailable))
		return
	}

	payload := readyzPayload{
		Status:      report.Status,
		Version:     h.build.Version,
		Environment: h.build.Environment,
	}
	if !report.GeneratedAt.IsZero() {
		payload.GeneratedAt = report.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if len(report.Checks) > 0 {
		payload.Checks = make(map[string]readyzCheckPayload, len(report.Checks))
		for name, check := range report.Checks {
			entry := readyzCheckPayload{
				Status: check.Status,
				Detail: check.Detail,
				Error:  check.Error,
			}
			if check.Latency > 0 {
				entry.Latency = check.Latency.String()
			}
			payload.Checks[name] = entry
		}
	}

	status := http.StatusOK
	if report.Status == domain.HealthStatusError {
		status = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, status, payload)
}
