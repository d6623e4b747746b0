package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister создаёт новый аккаунт.
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	user, err := a.auth.Register(req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapUser(user))
}

// handleLogin проверяет учётные данные и возвращает токен.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	token, user, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: mapUser(user)})
}
