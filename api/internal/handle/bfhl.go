package handle

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgBodyTooLarge     = "Request body too large"
)

func (h *Handle) BFHL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.fail(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		h.log.Warn("read body", zap.Error(err))
		h.fail(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	status, env := h.d.Dispatch(r.Context(), body)
	writeJSON(w, status, env)
}
