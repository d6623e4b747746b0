package domain

import (
	"errors"
	"testing"
)

func TestParseSize(t *testing.T) {
	for _, s := range []string{"S", "M", "L", "XL"} {
		size, err := ParseSize(s)
		if err != nil {
			t.Fatalf("ParseSize(%q) unexpected error: %v", s, err)
		}
		if string(size) != s {
			t.Fatalf("ParseSize(%q) = %q", s, size)
		}
	}

	for _, s := range []string{"", "xs", "XXL", "m"} {
		if _, err := ParseSize(s); !errors.Is(err, ErrSizeInvalid) {
			t.Fatalf("ParseSize(%q) expected ErrSizeInvalid, got %v", s, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"Men", "Women", "Kids"} {
		category, err := ParseCategory(s)
		if err != nil {
			t.Fatalf("ParseCategory(%q) unexpected error: %v", s, err)
		}
		if string(category) != s {
			t.Fatalf("ParseCategory(%q) = %q", s, category)
		}
	}

	for _, s := range []string{"", "men", "Unisex"} {
		if _, err := ParseCategory(s); !errors.Is(err, ErrCategoryInvalid) {
			t.Fatalf("ParseCategory(%q) expected ErrCategoryInvalid, got %v", s, err)
		}
	}
}
