package source

import (
	"net/http"

	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

// Register registers all source-related HTTP handlers with the given mux.
// Writes pass through writeLimit, which may be nil.
func Register(mux *http.ServeMux, svc srcUC.Service, writeLimit func(http.Handler) http.Handler) {
	if writeLimit == nil {
		writeLimit = func(h http.Handler) http.Handler { return h }
	}

	mux.Handle("GET /sources", ListHandler{svc})
	mux.Handle("GET /sources/{id}", GetHandler{svc})

	mux.Handle("POST /sources", writeLimit(CreateHandler{svc}))
	mux.Handle("PUT /sources/{id}", writeLimit(UpdateHandler{svc}))
	mux.Handle("DELETE /sources/{id}", writeLimit(DeleteHandler{svc}))
	mux.Handle("PUT /sources/{id}/error", writeLimit(SetErrorHandler{svc}))
}
