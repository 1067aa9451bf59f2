package domain

import (
	"reflect"
	"testing"
)

func TestCart(t *testing.T) {
	var c Cart
	c.Add(1, 2)
	c.Add(2, 1)
	c.Add(1, 3)

	if got := c.Quantity(1); got != 5 {
		t.Errorf("expected quantity 5, got %d", got)
	}
	if !reflect.DeepEqual(c.ProductIDs(), []int64{1, 2}) {
		t.Errorf("unexpected product ids %v", c.ProductIDs())
	}

	c.Set(2, 4)
	if got := c.Quantity(2); got != 4 {
		t.Errorf("expected quantity 4, got %d", got)
	}

	c.Set(1, 0)
	if c.Quantity(1) != 0 || len(c.Lines) != 1 {
		t.Errorf("expected product 1 removed, got %+v", c.Lines)
	}

	c.Remove(2)
	if !c.Empty() {
		t.Errorf("expected empty cart, got %+v", c.Lines)
	}
}

func TestProduct_Available(t *testing.T) {
	p := Product{IsActive: true, StockQuantity: 3}
	if err := p.Available(3); err != nil {
		t.Errorf("expected available, got %v", err)
	}
	if err := p.Available(4); err != ErrInsufficientStock {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	p.IsActive = false
	if err := p.Available(1); err != ErrProductUnavailable {
		t.Errorf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Classic Leather Wallet": "classic-leather-wallet",
		"  Belt -- 120cm ":       "belt-120cm",
		"Сумка «Тоут»":           "сумка-тоут",
		"":                       "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPaginated(t *testing.T) {
	p := NewPaginated([]int(nil), NewPage(2, 12), 25)
	if p.Items == nil {
		t.Fatal("expected non-nil items")
	}
	if p.Pages() != 3 || !p.HasNext() {
		t.Errorf("expected 3 pages with next, got %d %v", p.Pages(), p.HasNext())
	}
	if NewPage(0, 0).Offset() != 0 {
		t.Error("expected clamped page offset 0")
	}
}
