package cart_test

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/cart"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

func newUsecase(t *testing.T) (*cart.Usecase, domain.CartRepository) {
	t.Helper()

	carts := memory.NewCartRepository()
	products := memory.NewProductRepository()

	now := time.Now().UTC()
	require.NoError(t, products.Create(domain.Product{
		ID:         "product-1",
		Name:       "Black Hoodie",
		PriceMinor: 129900,
		Category:   domain.CategoryMen,
		Sizes:      []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL, domain.SizeXL},
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
	require.NoError(t, products.Create(domain.Product{
		ID:         "product-2",
		Name:       "Slim Fit Jeans",
		PriceMinor: 179900,
		Category:   domain.CategoryMen,
		Sizes:      []domain.Size{domain.SizeM, domain.SizeL},
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	uc := cart.NewUsecase(carts, products, nil, logrus.NewEntry(logger))
	return uc, carts
}

func TestResolve_MintsGuestToken(t *testing.T) {
	uc, _ := newUsecase(t)

	resolved, err := uc.Resolve(cart.Identity{})
	require.NoError(t, err)
	require.NotEmpty(t, resolved.Token)
	require.Empty(t, resolved.UserID)
	require.Empty(t, resolved.Items)

	// Повторный запрос с тем же токеном возвращает ту же корзину.
	again, err := uc.Resolve(cart.Identity{Token: resolved.Token})
	require.NoError(t, err)
	require.Equal(t, resolved.ID, again.ID)
}

func TestResolve_LazyCreateForUser(t *testing.T) {
	uc, _ := newUsecase(t)

	resolved, err := uc.Resolve(cart.Identity{UserID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, "user-1", resolved.UserID)
	require.Empty(t, resolved.Token)

	again, err := uc.Resolve(cart.Identity{UserID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, resolved.ID, again.ID)
}

func TestAddItem_DefaultsQtyToOne(t *testing.T) {
	uc, _ := newUsecase(t)

	resolved, err := uc.AddItem(cart.Identity{UserID: "user-1"}, "product-1", domain.SizeM, 0)
	require.NoError(t, err)
	require.Len(t, resolved.Items, 1)
	require.Equal(t, int32(1), resolved.Items[0].Qty)
}

func TestAddItem_AccumulatesSameLine(t *testing.T) {
	uc, _ := newUsecase(t)

	// Первый запрос гостя без токена: выпускается токен.
	first, err := uc.AddItem(cart.Identity{}, "product-1", domain.SizeM, 2)
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)
	require.Len(t, first.Items, 1)
	require.Equal(t, int32(2), first.Items[0].Qty)

	// Повторное добавление той же пары (товар, размер) с токеном.
	second, err := uc.AddItem(cart.Identity{Token: first.Token}, "product-1", domain.SizeM, 3)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, second.Items, 1)
	require.Equal(t, int32(5), second.Items[0].Qty)
	require.Equal(t, first.Items[0].ID, second.Items[0].ID)
}

func TestAddItem_DifferentSizeCreatesNewLine(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	_, err := uc.AddItem(id, "product-1", domain.SizeM, 1)
	require.NoError(t, err)

	resolved, err := uc.AddItem(id, "product-1", domain.SizeL, 1)
	require.NoError(t, err)
	require.Len(t, resolved.Items, 2)
}

func TestAddItem_Validation(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	_, err := uc.AddItem(id, "product-1", "XXL", 1)
	require.ErrorIs(t, err, domain.ErrSizeInvalid)

	_, err = uc.AddItem(id, "product-1", domain.SizeM, -1)
	require.ErrorIs(t, err, domain.ErrQtyInvalid)

	_, err = uc.AddItem(id, "missing-product", domain.SizeM, 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	// Ошибочные запросы не создают корзину.
	_, err = uc.UpdateItem(id, "any", 1)
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestUpdateItem_OverwritesQty(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	resolved, err := uc.AddItem(id, "product-1", domain.SizeM, 2)
	require.NoError(t, err)
	itemID := resolved.Items[0].ID

	updated, err := uc.UpdateItem(id, itemID, 7)
	require.NoError(t, err)
	require.Equal(t, int32(7), updated.Items[0].Qty)
}

func TestUpdateItem_RejectsNonPositiveQty(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	resolved, err := uc.AddItem(id, "product-1", domain.SizeM, 2)
	require.NoError(t, err)
	itemID := resolved.Items[0].ID

	_, err = uc.UpdateItem(id, itemID, 0)
	require.ErrorIs(t, err, domain.ErrQtyInvalid)

	_, err = uc.UpdateItem(id, itemID, -3)
	require.ErrorIs(t, err, domain.ErrQtyInvalid)

	// Количество не изменилось.
	current, err := uc.Resolve(id)
	require.NoError(t, err)
	require.Equal(t, int32(2), current.Items[0].Qty)
}

func TestUpdateItem_UnknownItem(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	_, err := uc.AddItem(id, "product-1", domain.SizeM, 2)
	require.NoError(t, err)

	_, err = uc.UpdateItem(id, "missing-item", 3)
	require.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestUpdateItem_NoCart(t *testing.T) {
	uc, _ := newUsecase(t)

	_, err := uc.UpdateItem(cart.Identity{UserID: "user-1"}, "item", 3)
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	// Гость без токена тоже получает NotFound, корзина не создаётся.
	_, err = uc.UpdateItem(cart.Identity{}, "item", 3)
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestRemoveItem_RemovesLine(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	resolved, err := uc.AddItem(id, "product-1", domain.SizeM, 2)
	require.NoError(t, err)
	_, err = uc.AddItem(id, "product-2", domain.SizeL, 1)
	require.NoError(t, err)

	after, err := uc.RemoveItem(id, resolved.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, after.Items, 1)
	require.Equal(t, "product-2", after.Items[0].ProductID)
}

func TestRemoveItem_UnknownItemLeavesCartUnchanged(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	before, err := uc.AddItem(id, "product-1", domain.SizeM, 2)
	require.NoError(t, err)

	_, err = uc.RemoveItem(id, "missing-item")
	require.ErrorIs(t, err, domain.ErrCartItemNotFound)

	current, err := uc.Resolve(id)
	require.NoError(t, err)
	require.Equal(t, before.Version, current.Version)
	require.Len(t, current.Items, 1)
}

func TestRemoveItem_NoCart(t *testing.T) {
	uc, _ := newUsecase(t)

	_, err := uc.RemoveItem(cart.Identity{Token: "unknown-token"}, "item")
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestClear_UpsertsMissingCart(t *testing.T) {
	uc, _ := newUsecase(t)

	cleared, err := uc.Clear(cart.Identity{UserID: "user-1"})
	require.NoError(t, err)
	require.Empty(t, cleared.Items)
	require.Equal(t, "user-1", cleared.UserID)
}

func TestClear_EmptiesExistingCart(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	_, err := uc.AddItem(id, "product-1", domain.SizeM, 2)
	require.NoError(t, err)

	cleared, err := uc.Clear(id)
	require.NoError(t, err)
	require.Empty(t, cleared.Items)

	current, err := uc.Resolve(id)
	require.NoError(t, err)
	require.Empty(t, current.Items)
}

func TestClear_MintsTokenForFreshGuest(t *testing.T) {
	uc, _ := newUsecase(t)

	cleared, err := uc.Clear(cart.Identity{})
	require.NoError(t, err)
	require.NotEmpty(t, cleared.Token)
	require.Empty(t, cleared.Items)
}

func TestOps_IncrementVersion(t *testing.T) {
	uc, _ := newUsecase(t)
	id := cart.Identity{UserID: "user-1"}

	first, err := uc.AddItem(id, "product-1", domain.SizeM, 1)
	require.NoError(t, err)

	second, err := uc.AddItem(id, "product-1", domain.SizeM, 1)
	require.NoError(t, err)
	require.Greater(t, second.Version, first.Version)
}
