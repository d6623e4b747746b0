package domain

import "time"

// Size — размер одежды из фиксированного перечня.
type Size string

const (
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// ParseSize проверяет строку на принадлежность перечню размеров.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeS, SizeM, SizeL, SizeXL:
		return Size(s), nil
	default:
		return "", ErrSizeInvalid
	}
}

// Category — категория каталога.
type Category string

const (
	CategoryMen   Category = "Men"
	CategoryWomen Category = "Women"
	CategoryKids  Category = "Kids"
)

// ParseCategory проверяет строку на принадлежность перечню категорий.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryMen, CategoryWomen, CategoryKids:
		return Category(s), nil
	default:
		return "", ErrCategoryInvalid
	}
}

// Product — карточка товара в каталоге.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена в минимальных денежных единицах (например, копейки).
	PriceMinor int64
	Image      string
	Category   Category
	// Sizes — размеры, заявленные продавцом. На добавление в корзину
	// не влияют: там проверяется только принадлежность перечню.
	Sizes     []Size
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductFilter описывает фильтры и пагинацию списка каталога.
type ProductFilter struct {
	Category      Category
	Size          Size
	MinPriceMinor int64
	MaxPriceMinor int64
	// Search — подстрочный поиск по имени и описанию (case-insensitive).
	Search string
	Page   int
	Limit  int
}
