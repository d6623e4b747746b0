package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// handleListProducts возвращает страницу каталога с фильтрами:
// ?page&limit&category&size&minPrice&maxPrice&search.
func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Search: q.Get("search"),
		Page:   atoiOrZero(q.Get("page")),
		Limit:  atoiOrZero(q.Get("limit")),
	}
	if v := q.Get("category"); v != "" {
		category, err := domain.ParseCategory(v)
		if err != nil {
			writeDomainError(a.logger, w, err)
			return
		}
		filter.Category = category
	}
	if v := q.Get("size"); v != "" {
		size, err := domain.ParseSize(v)
		if err != nil {
			writeDomainError(a.logger, w, err)
			return
		}
		filter.Size = size
	}
	filter.MinPriceMinor = int64(atoiOrZero(q.Get("minPrice")))
	filter.MaxPriceMinor = int64(atoiOrZero(q.Get("maxPrice")))

	products, meta, err := a.catalog.List(filter)
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}

	resp := productListResponse{Products: make([]productResponse, 0, len(products)), Meta: meta}
	for _, product := range products {
		resp.Products = append(resp.Products, mapProduct(product))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetProduct возвращает карточку товара.
func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := a.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(a.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(product))
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
