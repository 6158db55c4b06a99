package handle

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"bfhl/api/internal/bfhl"
)

type Handle struct {
	d            *bfhl.Dispatcher
	maxBodyBytes int64
	log          *zap.Logger
}

func New(d *bfhl.Dispatcher, maxBodyBytes int64, log *zap.Logger) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{d: d, maxBodyBytes: maxBodyBytes, log: log}
}

// Register mounts the public routes on mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("/bfhl", h.BFHL)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/", h.NotFound)
}

func (h *Handle) NotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, http.StatusNotFound, "Not found")
}

func (h *Handle) fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, bfhl.Failure(h.d.Identity(), msg))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
