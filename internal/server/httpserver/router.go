package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/kvfile-go/internal/infra/buildinfo"
	"github.com/yndnr/kvfile-go/internal/telemetry/metric"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// StoreAccess runs fn with exclusive access to the served store.
// lineserver.Server implements it.
type StoreAccess interface {
	WithStore(fn func(*kvfile.Store) error) error
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Store is the store being served.
	Store StoreAccess

	// Registry is exposed at /metrics. Nil disables the endpoint.
	Registry *prometheus.Registry

	// Logger for access and panic logging.
	Logger *slog.Logger
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Format string `json:"format"`
	Policy string `json:"policy"`
	Keys   int    `json:"keys"`
}

// NewRouter creates the admin routes:
//
//	GET  /health   store summary
//	GET  /version  build information
//	GET  /metrics  Prometheus exposition
//	POST /dump     write the store file now
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler(cfg.Store))
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})
	mux.HandleFunc("POST /dump", dumpHandler(cfg.Store, log))
	if cfg.Registry != nil {
		mux.Handle("GET /metrics", metric.Handler(cfg.Registry))
	}

	return Chain(mux, RequestID(), Recover(log), AccessLog(log))
}

func healthHandler(store StoreAccess) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp HealthResponse
		err := store.WithStore(func(s *kvfile.Store) error {
			resp = HealthResponse{
				Status: "ok",
				Path:   s.Path(),
				Format: s.Format().String(),
				Policy: s.Policy().String(),
				Keys:   s.Len(),
			}
			return nil
		})
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func dumpHandler(store StoreAccess, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.WithStore(func(s *kvfile.Store) error { return s.Dump() })
		if err != nil {
			log.Error("dump requested over http failed",
				"request_id", GetRequestIDFromContext(r.Context()),
				"kind", kvfile.KindOf(err).String(),
				"error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "dumped"})
	}
}
