package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type checkoutStore struct {
	db *sql.DB
}

// NewCheckoutStore создаёт PostgreSQL-реализацию CheckoutStore.
// Заказ и очистка корзины фиксируются одной транзакцией.
func NewCheckoutStore(store *Store) domain.CheckoutStore {
	return &checkoutStore{db: store.DB()}
}

// CommitCheckout сохраняет заказ и очищает корзину атомарно.
// Очистка выполняется по версии: если корзина изменилась после чтения,
// транзакция откатывается с ErrCartVersionConflict.
func (s *checkoutStore) CommitCheckout(order domain.Order, cartID string, cartVersion int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET version = version + 1,
		    updated_at = $1
		WHERE id = $2
		  AND version = $3
	`, time.Now().UTC(), cartID, cartVersion)
	if err != nil {
		return fmt.Errorf("claim cart for checkout: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := cartExistsTx(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrCartNotFound
		}
		return domain.ErrCartVersionConflict
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}

	if err = insertOrderTx(ctx, tx, order); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout: %w", err)
	}

	return nil
}

var _ domain.CheckoutStore = (*checkoutStore)(nil)
