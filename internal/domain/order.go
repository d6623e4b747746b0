package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, но ещё не завершён. Зарезервировано
	// под будущий workflow: текущий checkout сразу выставляет Completed.
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusCompleted — заказ оформлен.
	OrderStatusCompleted OrderStatus = "Completed"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderItem — снапшот позиции корзины, снятый в момент checkout.
// Имя и цена копируются из каталога и не зависят от его последующих изменений.
type OrderItem struct {
	ID        string
	ProductID string
	Name      string
	// PriceMinor — цена за единицу на момент оформления.
	PriceMinor int64
	Size       Size
	Qty        int32
	CreatedAt  time.Time
}

// Order агрегирует оформленный заказ и его позиции.
type Order struct {
	ID     string
	UserID string
	Items  []OrderItem
	// TotalMinor — сумма заказа, вычисленная один раз при создании.
	TotalMinor int64
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrOrderUserRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrOrderItemsRequired)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += int64(item.Qty) * item.PriceMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
