package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

// errorResponse is the body of every non-2xx response. Message is a string,
// or a list of strings for validation failures.
type errorResponse struct {
	Message    any    `json:"message"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"statusCode"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeErrorBody(w http.ResponseWriter, status int, message any) {
	_ = writeJSON(w, status, errorResponse{
		Message:    message,
		Error:      http.StatusText(status),
		StatusCode: status,
	})
}

// writeError maps the error taxonomy of package common onto HTTP statuses.
// Anything unrecognised is reported as an internal failure without detail.
func writeError(w http.ResponseWriter, err error) {
	var (
		dup    *common.DuplicateIdentityError
		cred   *common.InvalidCredentialError
		unauth *common.UnauthorizedError
		forb   *common.ForbiddenError
		bad    *common.BadRequestError
		val    *common.ValidationError
	)

	switch {
	case errors.As(err, &val):
		writeErrorBody(w, http.StatusBadRequest, val.Messages)
	case errors.As(err, &dup):
		writeErrorBody(w, http.StatusBadRequest, dup.Detail)
	case errors.As(err, &bad):
		writeErrorBody(w, http.StatusBadRequest, bad.Reason)
	case errors.As(err, &cred):
		writeErrorBody(w, http.StatusUnauthorized, cred.Error())
	case errors.As(err, &unauth):
		if unauth.Reason == services.ReasonMissingToken {
			_ = writeJSON(w, http.StatusUnauthorized, errorResponse{
				Message:    http.StatusText(http.StatusUnauthorized),
				StatusCode: http.StatusUnauthorized,
			})
			return
		}
		writeErrorBody(w, http.StatusUnauthorized, unauth.Reason)
	case errors.As(err, &forb):
		writeErrorBody(w, http.StatusForbidden, forb.Reason)
	case errors.Is(err, common.ErrorNotFound):
		writeErrorBody(w, http.StatusNotFound, "User not found")
	default:
		writeErrorBody(w, http.StatusInternalServerError, common.ErrInternalFailure.Error())
	}
}
