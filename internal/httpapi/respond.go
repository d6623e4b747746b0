package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// envelope — единый формат ответа API: {success, data} либо {success, error}.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: &apiError{Code: code, Message: message}})
}

// writeDomainError переводит доменную ошибку в HTTP-статус.
// Неожиданные ошибки скрываются за generic 500 и логируются.
func writeDomainError(logger *log.Entry, w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrCartEmpty):
		writeError(w, http.StatusBadRequest, "cart_empty", err.Error())
	case errors.Is(err, domain.ErrAuthRequired),
		errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case domain.IsVersionConflict(err):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrQtyInvalid),
		errors.Is(err, domain.ErrSizeInvalid),
		errors.Is(err, domain.ErrCategoryInvalid),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrEmailRequired),
		errors.Is(err, domain.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "validation", err.Error())
	default:
		logger.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
