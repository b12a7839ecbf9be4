package source

import (
	"net/http"

	"github.com/Nike1016/selfoss/internal/handler/http/respond"
	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

type UpdateHandler struct{ Svc srcUC.Service }

// ServeHTTP edits a source
// @Summary      Edit source
// @Description  Replaces title, spout and params of an existing source. The stored fetch error is kept.
// @Tags         sources
// @Accept       json
// @Produce      json
// @Param        id path int true "Source ID"
// @Param        source body source.WriteRequest true "New source values"
// @Success      204 "No Content"
// @Failure      400 {object} respond.ValidationErrors "Rejected fields"
// @Failure      404 {object} map[string]string "Source not found"
// @Failure      429 {object} map[string]string "Too many requests" headers(Retry-After=integer)
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /sources/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	title, spoutName, params, err := decodeWriteRequest(r.Body)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Svc.Update(r.Context(), srcUC.UpdateInput{
		ID: id, Title: title, Spout: spoutName, Params: params,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
