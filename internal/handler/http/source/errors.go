package source

import (
	"errors"
	"net/http"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/handler/http/pathutil"
	"github.com/Nike1016/selfoss/internal/handler/http/respond"
	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var fieldErrs entity.FieldErrors
	var valErr *entity.ValidationError
	switch {
	case errors.As(err, &fieldErrs):
		respond.FieldErrors(w, fieldErrs)
	case errors.As(err, &valErr):
		respond.SafeError(w, http.StatusBadRequest, valErr)
	case errors.Is(err, srcUC.ErrSourceNotFound):
		respond.SafeError(w, http.StatusNotFound, srcUC.ErrSourceNotFound)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

// pathID parses the {id} wildcard. On failure it writes 400 and reports false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}
