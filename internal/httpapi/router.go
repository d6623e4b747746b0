package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/service/auth"
	"github.com/vladislavdragonenkov/shop/internal/service/cart"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
)

// API связывает HTTP-маршруты с usecase-слоем.
type API struct {
	auth    *auth.Usecase
	catalog *catalog.Usecase
	carts   *cart.Usecase
	orders  *order.Usecase
	logger  *log.Entry
}

// NewAPI конструирует HTTP-слой с зависимостями.
func NewAPI(
	authUC *auth.Usecase,
	catalogUC *catalog.Usecase,
	cartUC *cart.Usecase,
	orderUC *order.Usecase,
	logger *log.Entry,
) *API {
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}
	return &API{
		auth:    authUC,
		catalog: catalogUC,
		carts:   cartUC,
		orders:  orderUC,
		logger:  logger,
	}
}

// Router собирает chi-маршрутизатор со всеми эндпоинтами API.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)
	r.Use(a.authenticate)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.handleRegister)
			r.Post("/login", a.handleLogin)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.handleListProducts)
			r.Get("/{id}", a.handleGetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", a.handleGetCart)
			r.Post("/add", a.handleAddItem)
			r.Put("/update", a.handleUpdateItem)
			r.Post("/remove", a.handleRemoveItem)
			r.Post("/clear", a.handleClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(a.requireAuth)
			r.Post("/checkout", a.handleCheckout)
			r.Get("/", a.handleListOrders)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	return r
}
