package memory

import (
	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// checkoutStoreInMemory связывает репозитории корзин и заказов,
// чтобы commit checkout выполнялся под общей блокировкой.
type checkoutStoreInMemory struct {
	carts  *cartRepositoryInMemory
	orders *orderRepositoryInMemory
}

// NewCheckoutStore создаёт in-memory реализацию CheckoutStore поверх
// репозиториев этого пакета.
func NewCheckoutStore(carts *cartRepositoryInMemory, orders *orderRepositoryInMemory) domain.CheckoutStore {
	return &checkoutStoreInMemory{carts: carts, orders: orders}
}

// CommitCheckout сохраняет заказ и очищает корзину как единое целое.
// Порядок блокировок фиксированный: сначала корзины, затем заказы.
func (s *checkoutStoreInMemory) CommitCheckout(order domain.Order, cartID string, cartVersion int64) error {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	s.orders.mu.Lock()
	defer s.orders.mu.Unlock()

	cart, ok := s.carts.items[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if cart.Version != cartVersion {
		return domain.ErrCartVersionConflict
	}

	if err := s.orders.createLocked(order); err != nil {
		return err
	}
	return s.carts.clearIfVersion(cartID, cartVersion)
}

var _ domain.CheckoutStore = (*checkoutStoreInMemory)(nil)
