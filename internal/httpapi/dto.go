package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// userResponse — публичное представление аккаунта (без хэша пароля).
type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func mapUser(user domain.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category"`
	Sizes       []string  `json:"sizes"`
	CreatedAt   time.Time `json:"createdAt"`
}

func mapProduct(product domain.Product) productResponse {
	sizes := make([]string, 0, len(product.Sizes))
	for _, s := range product.Sizes {
		sizes = append(sizes, string(s))
	}
	return productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.PriceMinor,
		Image:       product.Image,
		Category:    string(product.Category),
		Sizes:       sizes,
		CreatedAt:   product.CreatedAt,
	}
}

type productListResponse struct {
	Products []productResponse `json:"products"`
	Meta     domain.PageMeta   `json:"meta"`
}

type cartItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int32  `json:"quantity"`
}

// cartResponse несёт cartToken, который гость должен сохранить для
// последующих запросов.
type cartResponse struct {
	ID        string             `json:"id"`
	CartToken string             `json:"cartToken,omitempty"`
	Items     []cartItemResponse `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func mapCart(cart domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Size:      string(item.Size),
			Quantity:  item.Qty,
		})
	}
	return cartResponse{
		ID:        cart.ID,
		CartToken: cart.Token,
		Items:     items,
		UpdatedAt: cart.UpdatedAt,
	}
}

type orderItemResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Size      string `json:"size"`
	Quantity  int32  `json:"quantity"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Items     []orderItemResponse `json:"items"`
	Total     int64               `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

func mapOrder(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.PriceMinor,
			Size:      string(item.Size),
			Quantity:  item.Qty,
		})
	}
	return orderResponse{
		ID:        order.ID,
		Items:     items,
		Total:     order.TotalMinor,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
}
