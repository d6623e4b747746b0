package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
)

// Identity — результат разбора учётных данных запроса. Непустой UserID
// означает аутентифицированного пользователя; иначе запрос гостевой и
// Token (возможно, пустой) указывает на гостевую корзину.
type Identity struct {
	UserID string
	Token  string
}

// Authenticated сообщает, принадлежит ли identity аккаунту.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// Usecase реализует операции над корзиной: resolve, add, update, remove, clear.
type Usecase struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	logger   *log.Entry
	metrics  *metrics.ShopMetrics
}

// NewUsecase конструирует cart-сервис с зависимостями.
func NewUsecase(carts domain.CartRepository, products domain.ProductRepository, m *metrics.ShopMetrics, logger *log.Entry) *Usecase {
	if logger == nil {
		logger = log.WithField("component", "cart-usecase")
	}
	return &Usecase{
		carts:    carts,
		products: products,
		logger:   logger,
		metrics:  m,
	}
}

// Resolve возвращает корзину для identity, лениво создавая её при первом
// обращении. Для гостя без токена выпускается новый уникальный токен;
// возвращаемая корзина всегда несёт токен, который вызывающая сторона
// должна сохранить для последующих запросов.
func (u *Usecase) Resolve(id Identity) (domain.Cart, error) {
	if id.Authenticated() {
		cart, err := u.carts.GetByUser(id.UserID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, domain.ErrCartNotFound) {
			return domain.Cart{}, err
		}
		return u.createCart(domain.CartOwner{UserID: id.UserID})
	}

	token := id.Token
	if token == "" {
		token = uuid.NewString()
	}
	cart, err := u.carts.GetByToken(token)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return domain.Cart{}, err
	}
	return u.createCart(domain.CartOwner{Token: token})
}

// AddItem добавляет товар в корзину. Повторное добавление той же пары
// (товар, размер) увеличивает количество существующей позиции, а не
// создаёт дубликат.
func (u *Usecase) AddItem(id Identity, productID string, size domain.Size, qty int32) (domain.Cart, error) {
	if _, err := domain.ParseSize(string(size)); err != nil {
		return domain.Cart{}, err
	}
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return domain.Cart{}, domain.ErrQtyInvalid
	}

	if _, err := u.products.Get(productID); err != nil {
		return domain.Cart{}, err
	}

	cart, err := u.Resolve(id)
	if err != nil {
		return domain.Cart{}, err
	}

	if line := cart.FindLine(productID, size); line != nil {
		line.Qty += qty
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Size:      size,
			Qty:       qty,
			CreatedAt: time.Now().UTC(),
		})
	}

	if err := u.carts.Save(cart); err != nil {
		return domain.Cart{}, err
	}
	u.recordOp("add")
	return u.reload(cart)
}

// UpdateItem выставляет количество позиции ровно в qty (перезапись).
// Корзина и позиция должны уже существовать. Нулевое и отрицательное
// количество отклоняется.
func (u *Usecase) UpdateItem(id Identity, itemID string, qty int32) (domain.Cart, error) {
	if qty <= 0 {
		return domain.Cart{}, domain.ErrQtyInvalid
	}

	cart, err := u.existing(id)
	if err != nil {
		return domain.Cart{}, err
	}

	item := cart.FindItem(itemID)
	if item == nil {
		return domain.Cart{}, domain.ErrCartItemNotFound
	}
	item.Qty = qty

	if err := u.carts.Save(cart); err != nil {
		return domain.Cart{}, err
	}
	u.recordOp("update")
	return u.reload(cart)
}

// RemoveItem удаляет одну позицию по её идентификатору.
func (u *Usecase) RemoveItem(id Identity, itemID string) (domain.Cart, error) {
	cart, err := u.existing(id)
	if err != nil {
		return domain.Cart{}, err
	}

	kept := cart.Items[:0:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return domain.Cart{}, domain.ErrCartItemNotFound
	}
	cart.Items = kept

	if err := u.carts.Save(cart); err != nil {
		return domain.Cart{}, err
	}
	u.recordOp("remove")
	return u.reload(cart)
}

// Clear безусловно очищает корзину владельца. В отличие от update/remove,
// операция upsert: отсутствующая корзина создаётся пустой, NotFound не бывает.
func (u *Usecase) Clear(id Identity) (domain.Cart, error) {
	owner := domain.CartOwner{UserID: id.UserID}
	if !id.Authenticated() {
		token := id.Token
		if token == "" {
			token = uuid.NewString()
		}
		owner = domain.CartOwner{Token: token}
	}

	cart, err := u.carts.UpsertEmpty(owner)
	if err != nil {
		return domain.Cart{}, err
	}
	u.recordOp("clear")
	return cart, nil
}

// existing возвращает корзину identity без ленивого создания.
func (u *Usecase) existing(id Identity) (domain.Cart, error) {
	if id.Authenticated() {
		return u.carts.GetByUser(id.UserID)
	}
	if id.Token == "" {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return u.carts.GetByToken(id.Token)
}

func (u *Usecase) createCart(owner domain.CartOwner) (domain.Cart, error) {
	now := time.Now().UTC()
	cart := domain.Cart{
		ID:        uuid.NewString(),
		UserID:    owner.UserID,
		Token:     owner.Token,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.carts.Create(cart); err != nil {
		// Гонка двух первых запросов одного владельца: корзину уже создали,
		// перечитываем её вместо ошибки.
		if domain.IsVersionConflict(err) {
			if owner.UserID != "" {
				return u.carts.GetByUser(owner.UserID)
			}
			return u.carts.GetByToken(owner.Token)
		}
		return domain.Cart{}, err
	}
	u.logger.WithFields(log.Fields{
		"cart_id": cart.ID,
		"guest":   owner.Token != "",
	}).Debug("корзина создана")
	return cart, nil
}

// reload перечитывает корзину после сохранения, чтобы вернуть каноничное
// состояние с актуальной версией.
func (u *Usecase) reload(cart domain.Cart) (domain.Cart, error) {
	if cart.UserID != "" {
		return u.carts.GetByUser(cart.UserID)
	}
	return u.carts.GetByToken(cart.Token)
}

func (u *Usecase) recordOp(op string) {
	if u.metrics != nil {
		u.metrics.RecordCartOp(op)
	}
}
