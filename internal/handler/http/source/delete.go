package source

import (
	"net/http"

	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

type DeleteHandler struct{ Svc srcUC.Service }

// ServeHTTP deletes a source
// @Summary      Delete source
// @Description  Deletes the source and every item fetched from it. Deleting an unknown id succeeds.
// @Tags         sources
// @Param        id path int true "Source ID"
// @Success      204 "No Content"
// @Failure      400 {object} map[string]string "Invalid id"
// @Failure      429 {object} map[string]string "Too many requests" headers(Retry-After=integer)
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /sources/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
