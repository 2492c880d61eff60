package handlers

import (
	"errors"
	"net/http"

	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

var kindStatus = map[service.Kind]int{
	service.KindValidation:   http.StatusBadRequest,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindForbidden:    http.StatusForbidden,
	service.KindNotFound:     http.StatusNotFound,
	service.KindConflict:     http.StatusConflict,
}

// writeServiceError maps a service error to its status. Unclassified errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if status, ok := kindStatus[service.KindOf(err)]; ok {
		response.Error(w, status, err.Error())
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		response.Error(w, http.StatusInternalServerError, svcErr.Msg)
		return
	}
	response.Error(w, http.StatusInternalServerError, "Something went wrong")
}
