package domain

// UserRepository описывает требования к хранилищу аккаунтов.
type UserRepository interface {
	// Create сохраняет нового пользователя. Возвращает ErrEmailTaken,
	// если email уже занят.
	Create(user User) error
	// Get возвращает пользователя по идентификатору или ErrUserNotFound.
	Get(id string) (User, error)
	// GetByEmail возвращает пользователя по email или ErrUserNotFound.
	GetByEmail(email string) (User, error)
}

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет новый товар.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// List возвращает страницу каталога по фильтру и общее число совпадений.
	// Сортировка: сначала новые.
	List(filter ProductFilter) ([]Product, int, error)
}

// CartRepository описывает требования к хранилищу корзин.
type CartRepository interface {
	// GetByUser возвращает корзину пользователя или ErrCartNotFound.
	GetByUser(userID string) (Cart, error)
	// GetByToken возвращает гостевую корзину по токену или ErrCartNotFound.
	GetByToken(token string) (Cart, error)
	// Create сохраняет новую корзину.
	Create(cart Cart) error
	// Save перезаписывает позиции корзины с учётом optimistic locking:
	// при несовпадении версии возвращает ErrCartVersionConflict.
	Save(cart Cart) error
	// UpsertEmpty создаёт корзину владельца или очищает существующую,
	// возвращая итоговое (пустое) состояние. Версию инкрементирует.
	UpsertEmpty(owner CartOwner) (Cart, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id string) (Order, error)
	// ListByUser возвращает заказы пользователя, новые первыми,
	// с опциональным ограничением на количество (limit > 0).
	ListByUser(userID string, limit int) ([]Order, error)
}

// CheckoutStore атомарно фиксирует переход корзина → заказ: сохраняет заказ
// и очищает корзину в одной транзакции. Очистка выполняется только если
// версия корзины не изменилась с момента чтения; иначе ничего не
// записывается и возвращается ErrCartVersionConflict.
type CheckoutStore interface {
	CommitCheckout(order Order, cartID string, cartVersion int64) error
}
