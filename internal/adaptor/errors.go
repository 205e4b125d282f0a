package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"course-platform/internal/usecase"
	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// decodeJSON reads at most maxJSONBody bytes of JSON into dst. It writes the
// 400 response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			utils.ResponseBadRequest(w, "Request body too large", nil)
		case errors.Is(err, io.EOF):
			utils.ResponseBadRequest(w, "Request body is required", nil)
		default:
			utils.ResponseBadRequest(w, "Invalid request body", nil)
		}
		return false
	}
	return true
}

// writeServiceError maps a service failure to its status code. Anything that
// is not a known kind is answered as a generic 500.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	message := "Internal server error"
	var fields map[string]string

	var svcErr *usecase.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		fields = svcErr.Fields
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		log.Debug(operation+" failed - invalid input", zap.Error(err))
		if len(fields) > 0 {
			utils.ResponseBadRequest(w, message, fields)
		} else {
			utils.ResponseBadRequest(w, message, nil)
		}

	case errors.Is(err, usecase.ErrInvalidOrExpiredToken):
		log.Debug(operation+" failed - bad token", zap.Error(err))
		utils.ResponseBadRequest(w, message, nil)

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrUnauthenticated):
		log.Debug(operation+" failed - unauthenticated", zap.Error(err))
		utils.ResponseUnauthorized(w, message)

	case errors.Is(err, usecase.ErrForbidden),
		errors.Is(err, usecase.ErrAccountDisabled):
		log.Debug(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)

	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)

	case errors.Is(err, usecase.ErrConflict):
		log.Debug(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
