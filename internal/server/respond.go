package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/nasimstg/skilltree/pkg/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, code errors.Code, message string) {
	respondJSON(w, status, errorResponse{Error: apiError{
		Code:    string(code),
		Message: message,
	}})
}

// respondAppError maps an application error to an HTTP status by its code.
func respondAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeTreeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeDraftNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTree, errors.ErrCodeInvalidTreeID, errors.ErrCodeInvalidNode,
		errors.ErrCodeInvalidResource, errors.ErrCodeInvalidDirection, errors.ErrCodeInvalidTheme,
		errors.ErrCodeInvalidFormat, errors.ErrCodeCycle:
		status = http.StatusBadRequest
	}
	respondError(w, status, code, errors.UserMessage(err))
}
