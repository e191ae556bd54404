package handlers

import (
	"errors"
	"net/http"

	"github.com/joshualeeee/GetItDone/logging"
	"github.com/joshualeeee/GetItDone/utils"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type validationResponse struct {
	Message []string `json:"message"`
	Data    any      `json:"data"`
}

// writeError translates err into a status code and JSON body. Errors that
// match no known kind are logged and reported as 500 without their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *utils.RequestError
	if errors.As(err, &reqErr) {
		logging.FromContext(r.Context()).Warn(r.Context(), "invalid request", "errors", reqErr.Messages)
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Message: reqErr.Messages})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error(r.Context(), "request failed", "error", err)
		writeJSON(w, status, errorResponse{Detail: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, utils.ErrInvalidInput), errors.Is(err, utils.ErrPageOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, utils.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
