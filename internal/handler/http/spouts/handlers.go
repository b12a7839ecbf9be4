// Package spouts exposes the registered spout descriptors over HTTP so
// clients can render the parameter form of each spout.
package spouts

import (
	"errors"
	"net/http"

	"github.com/Nike1016/selfoss/internal/domain/spout"
	"github.com/Nike1016/selfoss/internal/handler/http/respond"
)

var errSpoutNotFound = errors.New("spout not found")

type ListHandler struct{ Spouts spout.Registry }

// ServeHTTP lists spouts
// @Summary      List spouts
// @Description  Returns every registered spout with its parameter schema
// @Tags         spouts
// @Produce      json
// @Success      200 {array} spout.Descriptor
// @Router       /spouts [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	list := h.Spouts.List()
	if list == nil {
		list = []*spout.Descriptor{}
	}
	respond.JSON(w, http.StatusOK, list)
}

type GetHandler struct{ Spouts spout.Registry }

// ServeHTTP returns one spout
// @Summary      Get spout
// @Tags         spouts
// @Produce      json
// @Param        name path string true "Spout name"
// @Success      200 {object} spout.Descriptor
// @Failure      404 {object} map[string]string "Spout not found"
// @Router       /spouts/{name} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d, ok := h.Spouts.Resolve(r.PathValue("name"))
	if !ok {
		respond.SafeError(w, http.StatusNotFound, errSpoutNotFound)
		return
	}
	respond.JSON(w, http.StatusOK, d)
}

// Register registers the spout endpoints with the given mux.
func Register(mux *http.ServeMux, reg spout.Registry) {
	mux.Handle("GET /spouts", ListHandler{reg})
	mux.Handle("GET /spouts/{name}", GetHandler{reg})
}
