package domain

import "testing"

func TestPageQueryNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   PageQuery
		want PageQuery
	}{
		{"zero values", PageQuery{}, PageQuery{Page: 1, Limit: 10}},
		{"negative", PageQuery{Page: -3, Limit: -1}, PageQuery{Page: 1, Limit: 10}},
		{"over limit", PageQuery{Page: 2, Limit: 500}, PageQuery{Page: 2, Limit: 100}},
		{"already valid", PageQuery{Page: 4, Limit: 25}, PageQuery{Page: 4, Limit: 25}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPageQueryOffset(t *testing.T) {
	q := PageQuery{Page: 3, Limit: 10}
	if got := q.Offset(); got != 20 {
		t.Fatalf("Offset() = %d, want 20", got)
	}
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(25, PageQuery{Page: 2, Limit: 10})
	want := PageMeta{Total: 25, Page: 2, Limit: 10, TotalPages: 3}
	if meta != want {
		t.Fatalf("NewPageMeta = %+v, want %+v", meta, want)
	}

	// Пустой результат: ноль страниц.
	meta = NewPageMeta(0, PageQuery{Page: 1, Limit: 10})
	if meta.TotalPages != 0 {
		t.Fatalf("expected 0 total pages, got %d", meta.TotalPages)
	}

	// Ровно кратное количество.
	meta = NewPageMeta(20, PageQuery{Page: 1, Limit: 10})
	if meta.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", meta.TotalPages)
	}
}
