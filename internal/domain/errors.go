package domain

import "errors"

var (
	// Ошибка отсутствующего имени пользователя при регистрации.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отсутствующего email.
	ErrEmailRequired = errors.New("email is required")
	// Ошибка слишком короткого пароля.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrEmailTaken возвращается при попытке зарегистрировать уже занятый email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверная пара email/пароль. Текст намеренно общий,
	// чтобы не раскрывать, существует ли аккаунт.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound возвращается, если пользователь не найден в репозитории.
	ErrUserNotFound = errors.New("user not found")
	// ErrAuthRequired — операция требует аутентифицированного пользователя.
	ErrAuthRequired = errors.New("authentication required")

	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// Ошибка некорректного размера (вне фиксированного перечня S/M/L/XL).
	ErrSizeInvalid = errors.New("size must be one of S, M, L, XL")
	// Ошибка некорректной категории товара.
	ErrCategoryInvalid = errors.New("category must be one of Men, Women, Kids")

	// ErrCartNotFound возвращается операциями, требующими уже существующей корзины.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound — в корзине нет позиции с указанным идентификатором.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrCartItemDuplicate — две позиции с одинаковой парой (товар, размер).
	ErrCartItemDuplicate = errors.New("duplicate cart line for product and size")
	// ErrCartEmpty — checkout по пустой или отсутствующей корзине.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrCartOwnerInvalid — корзина должна принадлежать либо пользователю, либо
	// гостевому токену, ровно одному из двух.
	ErrCartOwnerInvalid = errors.New("cart must have exactly one owner: user or guest token")
	// ErrCartVersionConflict сигнализирует о конфликте версий при сохранении корзины
	// (конкурентная мутация той же корзины).
	ErrCartVersionConflict = errors.New("cart version conflict")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrQtyInvalid = errors.New("quantity must be greater than zero")

	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists возвращается при попытке сохранить заказ с занятым ID.
	ErrOrderExists = errors.New("order already exists")
	// Ошибка отрицательной суммы заказа.
	ErrTotalNegative = errors.New("order total must be non-negative")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrOrderItemsRequired = errors.New("order must contain at least one item")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match items sum")
	// Ошибка отрицательной цены позиции.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отсутствующего владельца заказа.
	ErrOrderUserRequired = errors.New("order user_id is required")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий корзины.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrCartVersionConflict)
}

// IsNotFound проверяет, относится ли ошибка к семейству "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrCartItemNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
