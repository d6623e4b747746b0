package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{db: store.DB()}
}

func (r *cartRepository) GetByUser(userID string) (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.getWhere(ctx, "user_id = $1", userID)
}

func (r *cartRepository) GetByToken(token string) (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.getWhere(ctx, "cart_token = $1", token)
}

func (r *cartRepository) Create(cart domain.Cart) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO carts (
			id, user_id, cart_token, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		cart.ID, nullable(cart.UserID), nullable(cart.Token),
		cart.Version, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCartVersionConflict
		}
		return fmt.Errorf("insert cart: %w", err)
	}

	if err = insertCartItems(ctx, tx, cart.ID, cart.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create cart: %w", err)
	}

	return nil
}

func (r *cartRepository) Save(cart domain.Cart) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
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
	`, time.Now().UTC(), cart.ID, cart.Version)
	if err != nil {
		return fmt.Errorf("update cart version: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := cartExistsTx(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrCartNotFound
		}
		return domain.ErrCartVersionConflict
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}

	if err = insertCartItems(ctx, tx, cart.ID, cart.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save cart: %w", err)
	}

	return nil
}

func (r *cartRepository) UpsertEmpty(owner domain.CartOwner) (domain.Cart, error) {
	if !owner.Valid() {
		return domain.Cart{}, domain.ErrCartOwnerInvalid
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	column, value := "user_id", owner.UserID
	if owner.UserID == "" {
		column, value = "cart_token", owner.Token
	}

	var cart domain.Cart
	var userID, token sql.NullString

	err = tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, user_id, cart_token, version, created_at, updated_at
		FROM carts
		WHERE %s = $1
		FOR UPDATE
	`, column), value).Scan(
		&cart.ID, &userID, &token, &cart.Version, &cart.CreatedAt, &cart.UpdatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		cart = domain.Cart{
			ID:        uuid.NewString(),
			UserID:    owner.UserID,
			Token:     owner.Token,
			Items:     []domain.CartItem{},
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO carts (
				id, user_id, cart_token, version, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			cart.ID, nullable(cart.UserID), nullable(cart.Token),
			cart.Version, cart.CreatedAt, cart.UpdatedAt,
		); err != nil {
			return domain.Cart{}, fmt.Errorf("insert empty cart: %w", err)
		}
	case err != nil:
		return domain.Cart{}, fmt.Errorf("select cart for upsert: %w", err)
	default:
		cart.UserID = userID.String
		cart.Token = token.String
		cart.Items = []domain.CartItem{}
		cart.UpdatedAt = time.Now().UTC()
		cart.Version++
		if _, err = tx.ExecContext(ctx, `
			UPDATE carts SET version = $1, updated_at = $2 WHERE id = $3
		`, cart.Version, cart.UpdatedAt, cart.ID); err != nil {
			return domain.Cart{}, fmt.Errorf("bump cart version: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
			return domain.Cart{}, fmt.Errorf("clear cart items: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Cart{}, fmt.Errorf("commit upsert cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) getWhere(ctx context.Context, condition string, arg any) (domain.Cart, error) {
	var cart domain.Cart
	var userID, token sql.NullString

	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, user_id, cart_token, version, created_at, updated_at
		FROM carts
		WHERE %s
	`, condition), arg).Scan(
		&cart.ID, &userID, &token, &cart.Version, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("select cart: %w", err)
	}
	cart.UserID = userID.String
	cart.Token = token.String

	items, err := loadCartItems(ctx, r.db, cart.ID)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.Items = items

	return cart, nil
}

func loadCartItems(ctx context.Context, db *sql.DB, cartID string) ([]domain.CartItem, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, product_id, size, qty, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at ASC, id ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		var size string
		if err := rows.Scan(&item.ID, &item.ProductID, &size, &item.Qty, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Size = domain.Size(size)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return items, nil
}

func insertCartItems(ctx context.Context, tx *sql.Tx, cartID string, items []domain.CartItem) error {
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (
				id, cart_id, product_id, size, qty, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			item.ID, cartID, item.ProductID, string(item.Size), item.Qty, item.CreatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrCartItemDuplicate
			}
			return fmt.Errorf("insert cart item: %w", err)
		}
	}
	return nil
}

func cartExistsTx(ctx context.Context, tx *sql.Tx, cartID string) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE id = $1`, cartID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check cart exists: %w", err)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ domain.CartRepository = (*cartRepository)(nil)
