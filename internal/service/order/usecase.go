package order

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
)

const (
	// AggregateTypeOrder используется в outbox-сообщениях checkout.
	AggregateTypeOrder = "order"
	// EventTypeOrderCreated публикуется после фиксации заказа.
	EventTypeOrderCreated = "order.created"
)

// orderCreatedPayload — тело outbox-события о новом заказе.
type orderCreatedPayload struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	TotalMinor int64     `json:"total_minor"`
	Status     string    `json:"status"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Usecase реализует checkout и выборку заказов.
type Usecase struct {
	orders   domain.OrderRepository
	carts    domain.CartRepository
	products domain.ProductRepository
	users    domain.UserRepository
	checkout domain.CheckoutStore
	outbox   domain.OutboxRepository
	notifier domain.Notifier
	logger   *log.Entry
	metrics  *metrics.ShopMetrics

	// notifyWG отслеживает фоновые отправки писем, чтобы тесты и
	// graceful shutdown могли дождаться их завершения.
	notifyWG sync.WaitGroup
}

// NewUsecase конструирует order-сервис с зависимостями. outbox и notifier
// опциональны: nil отключает соответствующий side effect.
func NewUsecase(
	orders domain.OrderRepository,
	carts domain.CartRepository,
	products domain.ProductRepository,
	users domain.UserRepository,
	checkout domain.CheckoutStore,
	outbox domain.OutboxRepository,
	notifier domain.Notifier,
	m *metrics.ShopMetrics,
	logger *log.Entry,
) *Usecase {
	if logger == nil {
		logger = log.WithField("component", "order-usecase")
	}
	return &Usecase{
		orders:   orders,
		carts:    carts,
		products: products,
		users:    users,
		checkout: checkout,
		outbox:   outbox,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// Checkout превращает непустую корзину пользователя в заказ.
// Точка фиксации — CommitCheckout: заказ и очистка корзины записываются
// атомарно, конкурентный checkout той же корзины получает конфликт версий.
// Письмо-подтверждение отправляется в фоне и на результат не влияет.
func (u *Usecase) Checkout(userID string) (domain.Order, error) {
	if userID == "" {
		return domain.Order{}, domain.ErrAuthRequired
	}

	started := time.Now()
	order, err := u.checkoutInternal(userID)
	if u.metrics != nil {
		u.metrics.RecordCheckoutDuration(time.Since(started))
		switch {
		case err == nil:
			u.metrics.RecordCheckoutCompleted()
		case domain.IsVersionConflict(err):
			u.metrics.RecordCheckoutConflict()
		default:
			u.metrics.RecordCheckoutFailed()
		}
	}
	return order, err
}

func (u *Usecase) checkoutInternal(userID string) (domain.Order, error) {
	cart, err := u.carts.GetByUser(userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.Order{}, domain.ErrCartEmpty
		}
		return domain.Order{}, err
	}
	if len(cart.Items) == 0 {
		return domain.Order{}, domain.ErrCartEmpty
	}

	now := time.Now().UTC()
	items := make([]domain.OrderItem, 0, len(cart.Items))
	var total int64
	for _, it := range cart.Items {
		product, err := u.products.Get(it.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				// Товар исчез из каталога между добавлением и checkout:
				// позиция пропускается, заказ оформляется без неё.
				u.logger.WithFields(log.Fields{
					"cart_id":    cart.ID,
					"product_id": it.ProductID,
				}).Warn("товар не найден при checkout, позиция пропущена")
				continue
			}
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  product.ID,
			Name:       product.Name,
			PriceMinor: product.PriceMinor,
			Size:       it.Size,
			Qty:        it.Qty,
			CreatedAt:  now,
		})
		total += product.PriceMinor * int64(it.Qty)
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ErrCartEmpty
	}

	order := domain.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		Items:      items,
		TotalMinor: total,
		Status:     domain.OrderStatusCompleted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := u.checkout.CommitCheckout(order, cart.ID, cart.Version); err != nil {
		return domain.Order{}, err
	}

	u.enqueueOrderCreated(order)
	u.notifyAsync(order)

	u.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"user_id":     userID,
		"total_minor": order.TotalMinor,
		"items":       len(order.Items),
	}).Info("заказ оформлен")

	return order, nil
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (u *Usecase) ListByUser(userID string, limit int) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	return u.orders.ListByUser(userID, limit)
}

// WaitNotifications дожидается завершения фоновых отправок писем.
func (u *Usecase) WaitNotifications() {
	u.notifyWG.Wait()
}

// enqueueOrderCreated кладёт событие о заказе в outbox. Ошибка не
// откатывает checkout: заказ уже зафиксирован.
func (u *Usecase) enqueueOrderCreated(order domain.Order) {
	if u.outbox == nil {
		return
	}

	payload, err := json.Marshal(orderCreatedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalMinor: order.TotalMinor,
		Status:     string(order.Status),
		ItemCount:  len(order.Items),
		CreatedAt:  order.CreatedAt,
	})
	if err != nil {
		u.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order event")
		return
	}

	if _, err := u.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: AggregateTypeOrder,
		AggregateID:   order.ID,
		EventType:     EventTypeOrderCreated,
		Payload:       payload,
	}); err != nil {
		u.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue order event")
	}
}

// notifyAsync отправляет письмо-подтверждение в фоне. Любая ошибка
// логируется и проглатывается: успех checkout от доставки не зависит.
func (u *Usecase) notifyAsync(order domain.Order) {
	if u.notifier == nil {
		return
	}

	u.notifyWG.Add(1)
	go func() {
		defer u.notifyWG.Done()

		user, err := u.users.Get(order.UserID)
		if err != nil {
			u.logger.WithError(err).WithField("order_id", order.ID).Warn("не удалось получить email для письма")
			u.recordNotification(false)
			return
		}
		if err := u.notifier.SendOrderConfirmation(user.Email, order); err != nil {
			u.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"email":    user.Email,
			}).Warn("не удалось отправить письмо о заказе")
			u.recordNotification(false)
			return
		}
		u.recordNotification(true)
	}()
}

func (u *Usecase) recordNotification(ok bool) {
	if u.metrics == nil {
		return
	}
	if ok {
		u.metrics.RecordNotificationSent()
	} else {
		u.metrics.RecordNotificationFailed()
	}
}
