package catalog

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// Usecase реализует чтение каталога и начальное наполнение.
type Usecase struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewUsecase конструирует catalog-сервис.
func NewUsecase(products domain.ProductRepository, logger *log.Entry) *Usecase {
	if logger == nil {
		logger = log.WithField("component", "catalog-usecase")
	}
	return &Usecase{products: products, logger: logger}
}

// List возвращает страницу каталога по фильтру вместе с метаданными.
func (u *Usecase) List(filter domain.ProductFilter) ([]domain.Product, domain.PageMeta, error) {
	page := domain.PageQuery{Page: filter.Page, Limit: filter.Limit}.Normalize()
	filter.Page = page.Page
	filter.Limit = page.Limit

	products, total, err := u.products.List(filter)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return products, domain.NewPageMeta(total, page), nil
}

// Get возвращает товар по идентификатору.
func (u *Usecase) Get(id string) (domain.Product, error) {
	return u.products.Get(id)
}

// Seed добавляет товары в каталог, проставляя недостающие идентификаторы
// и временные метки. Используется cmd/seed.
func (u *Usecase) Seed(products []domain.Product) (int, error) {
	now := time.Now().UTC()
	for i := range products {
		p := products[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if err := u.products.Create(p); err != nil {
			return i, err
		}
	}
	u.logger.WithField("count", len(products)).Info("каталог загружен")
	return len(products), nil
}
