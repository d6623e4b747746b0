package domain

import "time"

// CartItem представляет одну позицию корзины: (товар, размер, количество).
type CartItem struct {
	// ID позиции присваивается при добавлении и используется для update/remove.
	ID        string
	ProductID string
	Size      Size
	Qty       int32
	CreatedAt time.Time
}

// CartOwner указывает владельца корзины: ровно одно из полей непустое.
type CartOwner struct {
	UserID string
	// Token — гостевой токен корзины (opaque-строка, живёт в cookie клиента).
	Token string
}

// Valid проверяет инвариант «ровно один владелец».
func (o CartOwner) Valid() bool {
	return (o.UserID == "") != (o.Token == "")
}

// Cart агрегирует позиции покупателя до оформления заказа.
type Cart struct {
	ID     string
	UserID string
	Token  string
	Items  []CartItem
	// Version — счётчик для optimistic locking; инкрементируется хранилищем
	// при каждом сохранении.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner возвращает владельца корзины.
func (c *Cart) Owner() CartOwner {
	return CartOwner{UserID: c.UserID, Token: c.Token}
}

// FindItem возвращает указатель на позицию по её ID или nil.
func (c *Cart) FindItem(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindLine возвращает указатель на позицию по паре (товар, размер) или nil.
// Инвариант корзины: не более одной позиции на каждую такую пару.
func (c *Cart) FindLine(productID string, size Size) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].Size == size {
			return &c.Items[i]
		}
	}
	return nil
}

// ValidateInvariants проверяет базовые инварианты корзины и возвращает список замечаний.
func (c *Cart) ValidateInvariants() []error {
	var errs []error

	if !c.Owner().Valid() {
		errs = append(errs, ErrCartOwnerInvalid)
	}

	seen := make(map[[2]string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrQtyInvalid)
		}
		if _, err := ParseSize(string(item.Size)); err != nil {
			errs = append(errs, err)
		}
		key := [2]string{item.ProductID, string(item.Size)}
		if _, dup := seen[key]; dup {
			errs = append(errs, ErrCartItemDuplicate)
		}
		seen[key] = struct{}{}
	}

	return errs
}
