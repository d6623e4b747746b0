package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/cart"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int32  `json:"quantity,omitempty"`
}

type updateItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int32  `json:"quantity"`
}

type removeItemRequest struct {
	ItemID string `json:"itemId"`
}

// identity собирает identity запроса: аккаунт из контекста либо гостевой
// токен из cookie/заголовка.
func (a *API) identity(r *http.Request) (cart.Identity, bool) {
	if user, ok := userFrom(r); ok {
		return cart.Identity{UserID: user.ID}, false
	}
	token, fromCookie := cartTokenFrom(r)
	return cart.Identity{Token: token}, !fromCookie
}

// ensureCartCookie ставит cookie с токеном, если гость пришёл без неё.
// Для аутентифицированных пользователей и гостей с cookie — no-op.
func ensureCartCookie(w http.ResponseWriter, id cart.Identity, resolved domain.Cart, cookieMissing bool) {
	if id.Authenticated() || !cookieMissing || resolved.Token == "" {
		return
	}
	setCartTokenCookie(w, resolved.Token)
}

// handleGetCart возвращает корзину identity, лениво создавая её.
func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	id, cookieMissing := a.identity(r)

	resolved, err := a.carts.Resolve(id)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	ensureCartCookie(w, id, resolved, cookieMissing)
	writeJSON(w, http.StatusOK, mapCart(resolved))
}

// handleAddItem добавляет товар в корзину.
func (a *API) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	id, cookieMissing := a.identity(r)
	resolved, err := a.carts.AddItem(id, req.ProductID, domain.Size(req.Size), req.Quantity)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	ensureCartCookie(w, id, resolved, cookieMissing)
	writeJSON(w, http.StatusOK, mapCart(resolved))
}

// handleUpdateItem перезаписывает количество позиции.
func (a *API) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	id, _ := a.identity(r)
	resolved, err := a.carts.UpdateItem(id, req.ItemID, req.Quantity)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCart(resolved))
}

// handleRemoveItem удаляет позицию из корзины.
func (a *API) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	var req removeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	id, _ := a.identity(r)
	resolved, err := a.carts.RemoveItem(id, req.ItemID)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCart(resolved))
}

// handleClearCart очищает корзину (upsert: создаёт пустую при отсутствии).
func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	id, cookieMissing := a.identity(r)

	resolved, err := a.carts.Clear(id)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	ensureCartCookie(w, id, resolved, cookieMissing)
	writeJSON(w, http.StatusOK, mapCart(resolved))
}
