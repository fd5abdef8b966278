package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"craftopia-api/internal/middleware"
	"craftopia-api/internal/model"
	"craftopia-api/internal/service"
	"craftopia-api/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := middleware.MessageInternal

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		message = apiErr.Message
	} else if errors.Is(err, service.ErrVerification) || errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		message = middleware.MessageUnauthorized
	} else if errors.Is(err, model.ErrForbidden) {
		forbidden := apierror.Forbidden()
		status = forbidden.HTTPStatus
		message = forbidden.Message
	} else {
		// Store failures end up here. Log them, never echo them.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: true, Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.BadRequest("invalid JSON body", err.Error())
	}
	return nil
}

// requireOwner rejects the request unless the authenticated caller is email.
func requireOwner(r *http.Request, email string) error {
	claim, ok := middleware.ClaimFromContext(r.Context())
	if !ok {
		return model.ErrUnauthorized
	}
	if claim.Email != email {
		return fmt.Errorf("%w: %s acting on %s", model.ErrForbidden, claim.Email, email)
	}
	return nil
}
