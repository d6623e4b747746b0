package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, description, price_minor, image, category, sizes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6, string_to_array(NULLIF($7, ''), ','), $8,$9)
	`,
		product.ID, product.Name, product.Description, product.PriceMinor,
		product.Image, string(product.Category), joinSizes(product.Sizes),
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert product: duplicate id %s", product.ID)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		product  domain.Product
		category string
		sizes    string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price_minor, image, category,
		       array_to_string(sizes, ','), created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.PriceMinor,
		&product.Image, &category, &sizes, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	product.Category = domain.Category(category)
	product.Sizes = splitSizes(sizes)

	return product, nil
}

func (r *productRepository) List(filter domain.ProductFilter) ([]domain.Product, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	where, args := buildProductFilter(filter)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	page := domain.PageQuery{Page: filter.Page, Limit: filter.Limit}.Normalize()
	query := fmt.Sprintf(`
		SELECT id, name, description, price_minor, image, category,
		       array_to_string(sizes, ','), created_at, updated_at
		FROM products%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, page.Limit)
	for rows.Next() {
		var (
			product  domain.Product
			category string
			sizes    string
		)
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.PriceMinor,
			&product.Image, &category, &sizes, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		product.Category = domain.Category(category)
		product.Sizes = splitSizes(sizes)
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

// buildProductFilter собирает WHERE-часть из непустых условий фильтра.
func buildProductFilter(filter domain.ProductFilter) (string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	next := func() int { return len(args) + 1 }

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", next()))
		args = append(args, string(filter.Category))
	}
	if filter.Size != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(sizes)", next()))
		args = append(args, string(filter.Size))
	}
	if filter.MinPriceMinor > 0 {
		conditions = append(conditions, fmt.Sprintf("price_minor >= $%d", next()))
		args = append(args, filter.MinPriceMinor)
	}
	if filter.MaxPriceMinor > 0 {
		conditions = append(conditions, fmt.Sprintf("price_minor <= $%d", next()))
		args = append(args, filter.MaxPriceMinor)
	}
	if filter.Search != "" {
		n := next()
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func joinSizes(sizes []domain.Size) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}

func splitSizes(joined string) []domain.Size {
	if joined == "" {
		return []domain.Size{}
	}
	parts := strings.Split(joined, ",")
	sizes := make([]domain.Size, 0, len(parts))
	for _, p := range parts {
		sizes = append(sizes, domain.Size(p))
	}
	return sizes
}

var _ domain.ProductRepository = (*productRepository)(nil)
