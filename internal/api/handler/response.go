package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"go.uber.org/zap"
)

// ErrorResponse тело ответа с нарушениями
type ErrorResponse struct {
	Errors model.Violations `json:"errors"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func writeViolations(w http.ResponseWriter, logger *zap.Logger, v model.Violations) {
	writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Errors: v})
}

func writeMessage(w http.ResponseWriter, logger *zap.Logger, status int, field, message string) {
	var v model.Violations
	v.Add(field, message)
	writeJSON(w, logger, status, ErrorResponse{Errors: v})
}

// writeServiceError отвечает на ошибку инфраструктуры или неизвестный аккаунт
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	if errors.Is(err, service.ErrUnknownAccount) {
		writeMessage(w, logger, http.StatusForbidden, model.FieldGeneral, "Account is not registered.")
		return
	}
	logger.Error("Request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeMessage(w, logger, http.StatusInternalServerError, model.FieldGeneral, "Internal server error.")
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseSlotStart собирает время начала из даты (dd-MM-yyyy или yyyy-MM-dd) и времени (H:mm)
func parseSlotStart(date, clock string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, date); err == nil {
		date = d.Format(model.DateLayout)
	}
	return model.ParseDateTime(strings.TrimSpace(date), strings.TrimSpace(clock))
}
