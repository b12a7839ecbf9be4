package source

import (
	"net/http"

	"github.com/Nike1016/selfoss/internal/handler/http/respond"
	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

type CreateHandler struct{ Svc srcUC.Service }

// ServeHTTP adds a source
// @Summary      Add source
// @Description  Validates title, spout and params against the spout schema and stores a new source
// @Tags         sources
// @Accept       json
// @Produce      json
// @Param        source body source.WriteRequest true "Source to add"
// @Success      201 {object} source.CreatedResponse
// @Failure      400 {object} respond.ValidationErrors "Rejected fields"
// @Failure      429 {object} map[string]string "Too many requests" headers(Retry-After=integer)
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /sources [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	title, spoutName, params, err := decodeWriteRequest(r.Body)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.Svc.Create(r.Context(), srcUC.CreateInput{
		Title: title, Spout: spoutName, Params: params,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, CreatedResponse{ID: id})
}
