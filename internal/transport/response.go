package transport

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/model"
)

// statusForCode maps envelope error codes to HTTP status codes. Codes not
// listed here are treated as internal errors.
var statusForCode = map[string]int{
	model.ErrInvalidParams:       http.StatusBadRequest,
	model.ErrUnknownCall:         http.StatusNotFound,
	model.ErrInvalidSession:      http.StatusUnauthorized,
	model.ErrIncorrectPassword:   http.StatusUnauthorized,
	model.ErrIncorrectTotpCode:   http.StatusUnauthorized,
	model.ErrUserNotFound:        http.StatusNotFound,
	model.ErrUserCreateFailed:    http.StatusConflict,
	model.ErrUserUpdateFailed:    http.StatusInternalServerError,
	model.ErrPasswordInsecure:    http.StatusBadRequest,
	model.ErrTotpUpdateFailed:    http.StatusInternalServerError,
	model.ErrDBCallFailed:        http.StatusInternalServerError,
	model.ErrInternalServerError: http.StatusInternalServerError,
}

// StatusForResult returns the HTTP status code for an envelope.
func StatusForResult(result model.Result) int {
	if result.Status == model.StatusSuccess {
		return http.StatusOK
	}
	if status, ok := statusForCode[result.Error]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteResult writes an envelope with the status code derived from its
// error code.
func WriteResult(w http.ResponseWriter, logger *zap.Logger, result model.Result) {
	WriteJSON(w, logger, StatusForResult(result), result)
}
