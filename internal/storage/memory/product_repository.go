package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий каталога.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Сохраняем копию списка размеров, чтобы избежать мутаций извне.
	product.Sizes = append([]domain.Size(nil), product.Sizes...)
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает страницу каталога по фильтру и общее число совпадений.
func (r *productRepositoryInMemory) List(filter domain.ProductFilter) ([]domain.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if !matches(product, filter) {
			continue
		}
		matched = append(matched, product)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	page := domain.PageQuery{Page: filter.Page, Limit: filter.Limit}.Normalize()
	offset := page.Offset()
	if offset >= total {
		return []domain.Product{}, total, nil
	}
	end := offset + page.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matches(product domain.Product, filter domain.ProductFilter) bool {
	if filter.Category != "" && product.Category != filter.Category {
		return false
	}
	if filter.Size != "" && !hasSize(product.Sizes, filter.Size) {
		return false
	}
	if filter.MinPriceMinor > 0 && product.PriceMinor < filter.MinPriceMinor {
		return false
	}
	if filter.MaxPriceMinor > 0 && product.PriceMinor > filter.MaxPriceMinor {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(product.Name), needle) &&
			!strings.Contains(strings.ToLower(product.Description), needle) {
			return false
		}
	}
	return true
}

func hasSize(sizes []domain.Size, size domain.Size) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
