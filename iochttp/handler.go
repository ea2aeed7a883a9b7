// Package iochttp exposes container health and registrations over HTTP.
package iochttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pikciu/ioc"
)

type Option func(*handler)

// WithMetrics serves the metrics of gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(h *handler) {
		h.gatherer = gatherer
	}
}

// WithCheckTimeout bounds every health request. The default is five seconds.
func WithCheckTimeout(d time.Duration) Option {
	return func(h *handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

type handler struct {
	c        *ioc.Container
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	timeout  time.Duration
}

// NewHandler routes:
//
//	GET /livez           200 when every health check passes, 503 otherwise
//	GET /readyz          same for readiness checks
//	GET /health          JSON report per checked instance
//	GET /registrations   JSON list of registrations
//	GET /graph           text graph, ?format=dot for Graphviz
//	GET /metrics         only with WithMetrics
func NewHandler(c *ioc.Container, opts ...Option) http.Handler {
	h := &handler{
		c:       c,
		logger:  c.Logger(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.timeout))

	r.Get("/livez", h.livez)
	r.Get("/readyz", h.readyz)
	r.Get("/health", h.health)
	r.Get("/registrations", h.registrations)
	r.Get("/graph", h.graph)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (h *handler) livez(w http.ResponseWriter, r *http.Request) {
	h.probe(w, h.c.Live(r.Context()))
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	h.probe(w, h.c.Ready(r.Context()))
}

func (h *handler) probe(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err != nil {
		h.logger.Warn("probe failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(err.Error() + "\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}

type healthResponse struct {
	Status  ioc.HealthStatus `json:"status"`
	Reports []healthReport   `json:"reports"`
}

type healthReport struct {
	Name      string           `json:"name"`
	Status    ioc.HealthStatus `json:"status"`
	Error     string           `json:"error,omitempty"`
	LatencyMS float64          `json:"latencyMs"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	reports := h.c.Health(r.Context())

	resp := healthResponse{
		Status:  ioc.HealthStatusUp,
		Reports: make([]healthReport, 0, len(reports)),
	}
	for _, rep := range reports {
		out := healthReport{
			Name:      rep.Name,
			Status:    rep.Status,
			LatencyMS: float64(rep.Latency) / float64(time.Millisecond),
		}
		if rep.Error != nil {
			out.Error = rep.Error.Error()
		}
		if rep.Status != ioc.HealthStatusUp {
			resp.Status = ioc.HealthStatusDown
		}
		resp.Reports = append(resp.Reports, out)
	}

	status := http.StatusOK
	if resp.Status != ioc.HealthStatusUp {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, resp)
}

type registration struct {
	Contract       string   `json:"contract"`
	Implementation string   `json:"implementation"`
	Lifecycle      string   `json:"lifecycle"`
	Dependencies   []string `json:"dependencies"`
	Dependents     []string `json:"dependents"`
	Instantiated   bool     `json:"instantiated"`
	PreSupplied    bool     `json:"preSupplied"`
}

func (h *handler) registrations(w http.ResponseWriter, _ *http.Request) {
	info := h.c.Graph()

	out := make([]registration, 0, len(info.Registrations))
	for _, reg := range info.Registrations {
		out = append(
			out, registration{
				Contract:       reg.Contract,
				Implementation: reg.Implementation,
				Lifecycle:      reg.Lifecycle,
				Dependencies:   nonNil(reg.Dependencies),
				Dependents:     nonNil(reg.Dependents),
				Instantiated:   reg.Instantiated,
				PreSupplied:    reg.PreSupplied,
			},
		)
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *handler) graph(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("format") {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		h.c.FprintGraph(w)
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		h.c.FprintGraphDOT(w)
	default:
		http.Error(w, "format must be text or dot", http.StatusBadRequest)
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response", "error", err)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
