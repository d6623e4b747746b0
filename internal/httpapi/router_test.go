package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/httpapi"
	"github.com/vladislavdragonenkov/shop/internal/service/auth"
	"github.com/vladislavdragonenkov/shop/internal/service/cart"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/notification"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

type apiEnv struct {
	server   *httptest.Server
	products domain.ProductRepository
	orders   *order.Usecase
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	entry := logrus.NewEntry(logger)

	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	carts := memory.NewCartRepository()
	orders := memory.NewOrderRepository()
	outbox := memory.NewOutboxRepository()

	now := time.Now().UTC()
	require.NoError(t, products.Create(domain.Product{
		ID: "product-1", Name: "Black Hoodie", Description: "Cotton hoodie",
		PriceMinor: 129900, Category: domain.CategoryMen,
		Sizes:     []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL},
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, products.Create(domain.Product{
		ID: "product-2", Name: "Summer Dress", Description: "Light dress",
		PriceMinor: 89900, Category: domain.CategoryWomen,
		Sizes:     []domain.Size{domain.SizeS, domain.SizeM},
		CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second),
	}))

	authUC := auth.NewUsecase(users, "test-secret", time.Hour, entry)
	catalogUC := catalog.NewUsecase(products, entry)
	cartUC := cart.NewUsecase(carts, products, nil, entry)
	orderUC := order.NewUsecase(
		orders, carts, products, users,
		memory.NewCheckoutStore(carts, orders),
		outbox, notification.NewNoop(entry), nil, entry,
	)

	api := httpapi.NewAPI(authUC, catalogUC, cartUC, orderUC, entry)
	server := httptest.NewServer(api.Router())
	t.Cleanup(server.Close)

	return &apiEnv{server: server, products: products, orders: orderUC}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *apiEnv) do(t *testing.T, method, path string, body any, mod func(*http.Request)) (*http.Response, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if mod != nil {
		mod(req)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func (e *apiEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	resp, _ := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Alice", "email": email, "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestRegister(t *testing.T) {
	e := newAPIEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "Alice@Example.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)

	var user map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &user))
	require.Equal(t, "alice@example.com", user["email"])
	require.Equal(t, string(domain.RoleMember), user["role"])
	require.NotContains(t, user, "passwordHash")
}

func TestRegister_Validation(t *testing.T) {
	e := newAPIEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, body.Success)
	require.Equal(t, "validation", body.Error.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newAPIEnv(t)
	e.registerAndLogin(t, "alice@example.com")

	resp, body := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Bob", "email": "alice@example.com", "password": "secret2",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "validation", body.Error.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newAPIEnv(t)
	e.registerAndLogin(t, "alice@example.com")

	resp, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "unauthorized", body.Error.Code)
}

func TestListProducts_Filters(t *testing.T) {
	e := newAPIEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/products/?category=Women", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Products []struct {
			ID    string `json:"id"`
			Price int64  `json:"price"`
		} `json:"products"`
		Meta domain.PageMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list.Products, 1)
	require.Equal(t, "product-2", list.Products[0].ID)
	require.Equal(t, 1, list.Meta.Total)

	// Невалидная категория даёт 400.
	resp, body = e.do(t, http.MethodGet, "/api/products/?category=unknown", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "validation", body.Error.Code)
}

func TestGetProduct(t *testing.T) {
	e := newAPIEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/products/product-1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product struct {
		Name  string   `json:"name"`
		Sizes []string `json:"sizes"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &product))
	require.Equal(t, "Black Hoodie", product.Name)
	require.Equal(t, []string{"S", "M", "L"}, product.Sizes)

	resp, body = e.do(t, http.MethodGet, "/api/products/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "not_found", body.Error.Code)
}

func TestGuestCart_CookieFlow(t *testing.T) {
	e := newAPIEnv(t)

	// Первый запрос гостя: сервер выпускает cartToken cookie.
	resp, body := e.do(t, http.MethodPost, "/api/cart/add", map[string]any{
		"productId": "product-1", "size": "M", "quantity": 2,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "cartToken" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "cartToken cookie must be set for fresh guest")

	var created struct {
		ID        string `json:"id"`
		CartToken string `json:"cartToken"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	require.Equal(t, cookie.Value, created.CartToken)

	// Повторный запрос с cookie попадает в ту же корзину.
	resp, body = e.do(t, http.MethodPost, "/api/cart/add", map[string]any{
		"productId": "product-1", "size": "M", "quantity": 1,
	}, func(r *http.Request) { r.AddCookie(cookie) })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var again struct {
		ID    string `json:"id"`
		Items []struct {
			Quantity int32 `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &again))
	require.Equal(t, created.ID, again.ID)
	require.Len(t, again.Items, 1)
	require.Equal(t, int32(3), again.Items[0].Quantity)

	// Cookie не перевыпускается, когда она уже есть.
	for _, c := range resp.Cookies() {
		require.NotEqual(t, "cartToken", c.Name)
	}
}

func TestGuestCart_HeaderToken(t *testing.T) {
	e := newAPIEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/cart/add", map[string]any{
		"productId": "product-2", "size": "S",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		ID        string `json:"id"`
		CartToken string `json:"cartToken"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	resp, body = e.do(t, http.MethodGet, "/api/cart/", nil, func(r *http.Request) {
		r.Header.Set("X-Cart-Token", created.CartToken)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &fetched))
	require.Equal(t, created.ID, fetched.ID)
}

func TestCart_UpdateAndRemove(t *testing.T) {
	e := newAPIEnv(t)
	token := e.registerAndLogin(t, "alice@example.com")

	resp, body := e.do(t, http.MethodPost, "/api/cart/add", map[string]any{
		"productId": "product-1", "size": "M", "quantity": 2,
	}, withBearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var current struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int32  `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &current))
	itemID := current.Items[0].ID

	resp, body = e.do(t, http.MethodPut, "/api/cart/update", map[string]any{
		"itemId": itemID, "quantity": 5,
	}, withBearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &current))
	require.Equal(t, int32(5), current.Items[0].Quantity)

	// Нулевое количество отклоняется.
	resp, body = e.do(t, http.MethodPut, "/api/cart/update", map[string]any{
		"itemId": itemID, "quantity": 0,
	}, withBearer(token))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "validation", body.Error.Code)

	// Неизвестная позиция даёт 404.
	resp, body = e.do(t, http.MethodPost, "/api/cart/remove", map[string]any{
		"itemId": "missing-item",
	}, withBearer(token))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "not_found", body.Error.Code)

	resp, body = e.do(t, http.MethodPost, "/api/cart/remove", map[string]any{
		"itemId": itemID,
	}, withBearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &current))
	require.Empty(t, current.Items)
}

func TestCheckout_RequiresAuth(t *testing.T) {
	e := newAPIEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/orders/checkout", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "unauthorized", body.Error.Code)
}

func TestCheckout_Flow(t *testing.T) {
	e := newAPIEnv(t)
	token := e.registerAndLogin(t, "alice@example.com")

	resp, _ := e.do(t, http.MethodPost, "/api/cart/add", map[string]any{
		"productId": "product-1", "size": "M", "quantity": 2,
	}, withBearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/orders/checkout", nil, withBearer(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var placed struct {
		ID     string `json:"id"`
		Total  int64  `json:"total"`
		Status string `json:"status"`
		Items  []struct {
			Name  string `json:"name"`
			Price int64  `json:"price"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &placed))
	require.Equal(t, int64(2*129900), placed.Total)
	require.Equal(t, string(domain.OrderStatusCompleted), placed.Status)
	require.Len(t, placed.Items, 1)
	require.Equal(t, "Black Hoodie", placed.Items[0].Name)

	// Корзина после checkout пуста.
	resp, body = e.do(t, http.MethodGet, "/api/cart/", nil, withBearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current struct {
		Items []any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &current))
	require.Empty(t, current.Items)

	// Повторный checkout пустой корзины отклоняется.
	resp, body = e.do(t, http.MethodPost, "/api/orders/checkout", nil, withBearer(token))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "cart_empty", body.Error.Code)

	// Заказ виден в истории.
	resp, body = e.do(t, http.MethodGet, "/api/orders/", nil, withBearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, placed.ID, listed[0].ID)

	e.orders.WaitNotifications()
}

func TestInvalidJSONBody(t *testing.T) {
	e := newAPIEnv(t)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/api/cart/add", bytes.NewBufferString("{broken"))
	require.NoError(t, err)
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Equal(t, "invalid_json", parsed.Error.Code)
}

func TestHealth(t *testing.T) {
	e := newAPIEnv(t)

	resp, body := e.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, body.Success)
}
