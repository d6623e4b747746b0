package domain

import (
	"errors"
	"testing"
)

func TestOrderValidateInvariants(t *testing.T) {
	valid := Order{
		ID:     "order-1",
		UserID: "user-1",
		Items: []OrderItem{
			{ProductID: "product-1", Name: "Black Hoodie", PriceMinor: 129900, Size: SizeM, Qty: 2},
			{ProductID: "product-2", Name: "Striped Polo", PriceMinor: 69900, Size: SizeS, Qty: 1},
		},
		TotalMinor: 2*129900 + 69900,
		Status:     OrderStatusCompleted,
	}
	if errs := valid.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestOrderValidateInvariants_Violations(t *testing.T) {
	cases := []struct {
		name  string
		order Order
		want  error
	}{
		{
			"missing user",
			Order{Items: []OrderItem{{PriceMinor: 100, Qty: 1}}, TotalMinor: 100},
			ErrOrderUserRequired,
		},
		{
			"no items",
			Order{UserID: "user-1"},
			ErrOrderItemsRequired,
		},
		{
			"negative total",
			Order{UserID: "user-1", Items: []OrderItem{{PriceMinor: 100, Qty: 1}}, TotalMinor: -1},
			ErrTotalNegative,
		},
		{
			"non-positive qty",
			Order{UserID: "user-1", Items: []OrderItem{{PriceMinor: 100, Qty: 0}}, TotalMinor: 0},
			ErrQtyInvalid,
		},
		{
			"negative price",
			Order{UserID: "user-1", Items: []OrderItem{{PriceMinor: -100, Qty: 1}}, TotalMinor: -100},
			ErrItemPriceInvalid,
		},
		{
			"total mismatch",
			Order{UserID: "user-1", Items: []OrderItem{{PriceMinor: 100, Qty: 2}}, TotalMinor: 100},
			ErrTotalMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.order.ValidateInvariants()
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					return
				}
			}
			t.Fatalf("expected violation %v, got %v", tc.want, errs)
		})
	}
}
