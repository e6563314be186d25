package api

import "net/http"

func (h *Handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.blinker.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
