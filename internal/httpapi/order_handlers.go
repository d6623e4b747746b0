package httpapi

import (
	"net/http"
)

// handleCheckout превращает корзину пользователя в заказ.
// Маршрут защищён requireAuth: identity здесь всегда аккаунт.
func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	order, err := a.orders.Checkout(user.ID)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrder(order))
}

// handleListOrders возвращает заказы пользователя, новые первыми.
func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	limit := atoiOrZero(r.URL.Query().Get("limit"))

	orders, err := a.orders.ListByUser(user.ID, limit)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, mapOrder(order))
	}
	writeJSON(w, http.StatusOK, resp)
}
