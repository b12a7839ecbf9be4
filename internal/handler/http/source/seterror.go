package source

import (
	"encoding/json"
	"net/http"

	"github.com/Nike1016/selfoss/internal/handler/http/respond"
	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

type SetErrorHandler struct{ Svc srcUC.Service }

// ServeHTTP records the last fetch error of a source
// @Summary      Set fetch error
// @Description  Stores the message of the last failed fetch. An empty message marks the source healthy again.
// @Tags         sources
// @Accept       json
// @Param        id path int true "Source ID"
// @Param        body body source.ErrorRequest true "Error message"
// @Success      204 "No Content"
// @Failure      400 {object} map[string]string "Invalid id or body"
// @Failure      429 {object} map[string]string "Too many requests" headers(Retry-After=integer)
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /sources/{id}/error [put]
func (h SetErrorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.SetError(r.Context(), id, req.Error); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
