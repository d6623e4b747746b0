package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// cartRepositoryInMemory — простая in-memory реализация CartRepository.
type cartRepositoryInMemory struct {
	mu      sync.RWMutex
	items   map[string]domain.Cart
	byUser  map[string]string
	byToken map[string]string
}

// NewCartRepository возвращает in-memory репозиторий корзин.
func NewCartRepository() *cartRepositoryInMemory {
	return &cartRepositoryInMemory{
		items:   make(map[string]domain.Cart),
		byUser:  make(map[string]string),
		byToken: make(map[string]string),
	}
}

// GetByUser возвращает корзину пользователя или ErrCartNotFound.
func (r *cartRepositoryInMemory) GetByUser(userID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cloneCart(r.items[id]), nil
}

// GetByToken возвращает гостевую корзину или ErrCartNotFound.
func (r *cartRepositoryInMemory) GetByToken(token string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cloneCart(r.items[id]), nil
}

// Create сохраняет новую корзину, если владелец ещё не занят.
func (r *cartRepositoryInMemory) Create(cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !cart.Owner().Valid() {
		return domain.ErrCartOwnerInvalid
	}
	if cart.UserID != "" {
		if _, exists := r.byUser[cart.UserID]; exists {
			return domain.ErrCartVersionConflict
		}
	}
	if cart.Token != "" {
		if _, exists := r.byToken[cart.Token]; exists {
			return domain.ErrCartVersionConflict
		}
	}

	r.items[cart.ID] = cloneCart(cart)
	if cart.UserID != "" {
		r.byUser[cart.UserID] = cart.ID
	}
	if cart.Token != "" {
		r.byToken[cart.Token] = cart.ID
	}
	return nil
}

// Save перезаписывает корзину, проверяя версию (optimistic locking).
func (r *cartRepositoryInMemory) Save(cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[cart.ID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if current.Version != cart.Version {
		return domain.ErrCartVersionConflict
	}
	// Инкрементируем версию перед сохранением.
	cart.Version++
	cart.UpdatedAt = time.Now().UTC()
	r.items[cart.ID] = cloneCart(cart)
	return nil
}

// UpsertEmpty создаёт корзину владельца или очищает существующую.
func (r *cartRepositoryInMemory) UpsertEmpty(owner domain.CartOwner) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !owner.Valid() {
		return domain.Cart{}, domain.ErrCartOwnerInvalid
	}

	var id string
	var ok bool
	if owner.UserID != "" {
		id, ok = r.byUser[owner.UserID]
	} else {
		id, ok = r.byToken[owner.Token]
	}

	now := time.Now().UTC()
	if ok {
		cart := r.items[id]
		cart.Items = nil
		cart.Version++
		cart.UpdatedAt = now
		r.items[id] = cart
		return cloneCart(cart), nil
	}

	cart := domain.Cart{
		ID:        uuid.NewString(),
		UserID:    owner.UserID,
		Token:     owner.Token,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.items[cart.ID] = cart
	if owner.UserID != "" {
		r.byUser[owner.UserID] = cart.ID
	} else {
		r.byToken[owner.Token] = cart.ID
	}
	return cloneCart(cart), nil
}

// clearIfVersion очищает корзину при совпадении версии. Используется
// checkout-store внутри пакета, чтобы commit был атомарным.
func (r *cartRepositoryInMemory) clearIfVersion(cartID string, version int64) error {
	cart, ok := r.items[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if cart.Version != version {
		return domain.ErrCartVersionConflict
	}
	cart.Items = nil
	cart.Version++
	cart.UpdatedAt = time.Now().UTC()
	r.items[cartID] = cart
	return nil
}

// cloneCart копирует корзину вместе с позициями, чтобы избежать
// непредсказуемых мутаций извне.
func cloneCart(cart domain.Cart) domain.Cart {
	cart.Items = append([]domain.CartItem(nil), cart.Items...)
	return cart
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
