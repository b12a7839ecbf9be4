package source

import (
	"net/http"

	"github.com/Nike1016/selfoss/internal/handler/http/respond"
	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

type ListHandler struct{ Svc srcUC.Service }

// ServeHTTP lists sources
// @Summary      List sources
// @Description  Returns every source ordered by title, each with the descriptor of its spout
// @Tags         sources
// @Produce      json
// @Success      200 {array} source.DTO
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /sources [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, v := range list {
		out = append(out, toDTO(v))
	}
	respond.JSON(w, http.StatusOK, out)
}

type GetHandler struct{ Svc srcUC.Service }

// ServeHTTP returns one source
// @Summary      Get source
// @Tags         sources
// @Produce      json
// @Param        id path int true "Source ID"
// @Success      200 {object} source.DTO
// @Failure      400 {object} map[string]string "Invalid id"
// @Failure      404 {object} map[string]string "Source not found"
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /sources/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(v))
}
