package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

// fixtures — стартовый набор товаров каталога. Цены в минимальных единицах.
var fixtures = []domain.Product{
	{Name: "Classic White T-Shirt", Description: "Premium cotton t-shirt, comfortable & breathable.", PriceMinor: 39900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Blue Denim Jacket", Description: "Stylish denim jacket for everyday wear.", PriceMinor: 249900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Slim Fit Jeans", Description: "Comfort stretch slim-fit jeans.", PriceMinor: 179900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Floral Summer Dress", Description: "Lightweight summer dress with floral pattern.", PriceMinor: 159900, Category: domain.CategoryWomen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}},
	{Name: "Black Hoodie", Description: "Cozy hoodie with fleece lining.", PriceMinor: 129900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Red Cocktail Dress", Description: "Elegant cocktail dress for special occasions.", PriceMinor: 299900, Category: domain.CategoryWomen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}},
	{Name: "Kids Graphic Tee", Description: "Fun graphic tee for kids.", PriceMinor: 49900, Category: domain.CategoryKids, Sizes: []domain.Size{domain.SizeS, domain.SizeM}},
	{Name: "Running Shorts", Description: "Lightweight running shorts with pockets.", PriceMinor: 79900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Women's Blazer", Description: "Tailored blazer for sleek office look.", PriceMinor: 229900, Category: domain.CategoryWomen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}},
	{Name: "Casual Sneakers", Description: "Comfortable sneakers for daily wear.", PriceMinor: 349900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Striped Polo", Description: "Classic striped polo shirt.", PriceMinor: 69900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}},
	{Name: "High-Waist Leggings", Description: "Stretchable leggings with snug fit.", PriceMinor: 89900, Category: domain.CategoryWomen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}},
	{Name: "Plaid Shirt", Description: "Casual plaid shirt with button-down collar.", PriceMinor: 69900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Kids Hoodie", Description: "Warm hoodie for kids.", PriceMinor: 79900, Category: domain.CategoryKids, Sizes: []domain.Size{domain.SizeS, domain.SizeM}},
	{Name: "Leather Belt", Description: "Genuine leather belt.", PriceMinor: 49900, Category: domain.CategoryMen, Sizes: []domain.Size{}},
	{Name: "Maxi Skirt", Description: "Flowy maxi skirt for summer.", PriceMinor: 109900, Category: domain.CategoryWomen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}},
	{Name: "Puffer Jacket", Description: "Insulated jacket for cold weather.", PriceMinor: 399900, Category: domain.CategoryWomen, Sizes: []domain.Size{domain.SizeM, domain.SizeL, domain.SizeXL}},
	{Name: "Cargo Trousers", Description: "Utility cargo trousers.", PriceMinor: 179900, Category: domain.CategoryMen, Sizes: []domain.Size{domain.SizeM, domain.SizeL}},
	{Name: "Denim Skirt", Description: "Classic denim skirt.", PriceMinor: 119900, Category: domain.CategoryWomen, Sizes: []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}},
	{Name: "Kids Shorts", Description: "Comfort shorts for kids.", PriceMinor: 39900, Category: domain.CategoryKids, Sizes: []domain.Size{domain.SizeS, domain.SizeM}},
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	var dsn string
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: SHOP_POSTGRES_DSN)")
	flag.Parse()

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("SHOP_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("SHOP_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		fail("apply migrations: %v", err)
	}

	catalogUC := catalog.NewUsecase(postgres.NewProductRepository(store), log.WithField("component", "seed"))
	count, err := catalogUC.Seed(fixtures)
	if err != nil {
		fail("seed products: %v", err)
	}

	fmt.Printf("seed ok: %d products inserted\n", count)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
