package pricing

import (
	"errors"
	"math"
	"strconv"
	"testing"
)

const epsilon = 1e-9

func mustItem(t *testing.T, name string, price float64, qty int, category string) *Item {
	t.Helper()
	it, err := NewItem(name, price, qty, category)
	if err != nil {
		t.Fatalf("new item %s: %v", name, err)
	}
	return it
}

func demoCart(t *testing.T) *Cart {
	t.Helper()
	c := NewCart()
	for _, it := range []*Item{
		mustItem(t, "Apple", 1.5, 10, "fruit"),
		mustItem(t, "Banana", 0.5, 5, "fruit"),
		mustItem(t, "Laptop", 1000, 1, "electronics"),
	} {
		if err := c.AddItem(it); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}
	return c
}

func TestAddItemRejectsInvalidItems(t *testing.T) {
	c := NewCart()
	if err := c.AddItem(nil); !errors.Is(err, ErrInvalidItemType) {
		t.Fatalf("expected ErrInvalidItemType for nil, got %v", err)
	}
	if err := c.AddItem(&Item{}); !errors.Is(err, ErrInvalidItemType) {
		t.Fatalf("expected ErrInvalidItemType for zero item, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d items", c.Len())
	}
}

func TestAddItemKeepsOrderAndDuplicates(t *testing.T) {
	c := NewCart()
	a := mustItem(t, "A", 1, 1, "x")
	b := mustItem(t, "B", 2, 1, "x")
	for _, it := range []*Item{a, b, a} {
		if err := c.AddItem(it); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}
	items := c.Items()
	if len(items) != 3 || items[0] != a || items[1] != b || items[2] != a {
		t.Fatalf("unexpected order %v", items)
	}
	items[0] = b
	if c.Items()[0] != a {
		t.Fatal("Items must return a copy")
	}
}

func TestCalculateSubtotal(t *testing.T) {
	if got := NewCart().CalculateSubtotal(); got != 0 {
		t.Fatalf("expected 0 for empty cart, got %v", got)
	}
	if got := demoCart(t).CalculateSubtotal(); got != 1022.5 {
		t.Fatalf("expected 1022.5, got %v", got)
	}
}

func TestCalculateSubtotalIndependentOfOrder(t *testing.T) {
	items := []*Item{
		mustItem(t, "A", 3, 2, "x"),
		mustItem(t, "B", 10, 1, "electronics"),
		mustItem(t, "C", 0.25, 8, "y"),
	}
	forward, backward := NewCart(), NewCart()
	for i := range items {
		_ = forward.AddItem(items[i])
		_ = backward.AddItem(items[len(items)-1-i])
	}
	if forward.CalculateSubtotal() != backward.CalculateSubtotal() {
		t.Fatalf("subtotals differ: %v vs %v", forward.CalculateSubtotal(), backward.CalculateSubtotal())
	}
}

func TestApplyDiscountsMemberFlag(t *testing.T) {
	c := NewCart()
	if got := c.ApplyDiscounts(80, "yes"); got != 76 {
		t.Fatalf("expected member discount to give 76, got %v", got)
	}
	for _, flag := range []string{"Yes", "YES", "true", strconv.FormatBool(true), "", "y"} {
		if got := c.ApplyDiscounts(80, flag); got != 80 {
			t.Fatalf("flag %q: expected 80, got %v", flag, got)
		}
	}
}

func TestApplyDiscountsBigSpender(t *testing.T) {
	c := NewCart()
	if got := c.ApplyDiscounts(100, ""); got != 100 {
		t.Fatalf("expected threshold to be strict, got %v", got)
	}
	if got := c.ApplyDiscounts(100.01, ""); math.Abs(got-90.01) > epsilon {
		t.Fatalf("expected 90.01, got %v", got)
	}
	// 105 after member discount is 99.75, below the threshold.
	if got := c.ApplyDiscounts(105, "yes"); got != 99.75 {
		t.Fatalf("expected 99.75, got %v", got)
	}
}

func TestApplyDiscountsNoFloor(t *testing.T) {
	p := DefaultPolicy()
	p.BigSpenderThreshold = 0
	p.BigSpenderDiscount = 10
	c, err := NewCartWithPolicy(p)
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}
	if got := c.ApplyDiscounts(4, ""); got != -6 {
		t.Fatalf("expected -6, got %v", got)
	}
}

func TestCalculateTotalScenario(t *testing.T) {
	c := demoCart(t)
	got := c.CalculateTotal("yes", "YES")
	if math.Abs(got-882.54225) > epsilon {
		t.Fatalf("expected 882.54225, got %v", got)
	}
}

func TestCalculateTotalBooleanMemberFlag(t *testing.T) {
	c := demoCart(t)
	got := c.CalculateTotal(strconv.FormatBool(true), "YES")
	if math.Abs(got-929.475) > epsilon {
		t.Fatalf("expected 929.475, got %v", got)
	}
}

func TestCalculateTotalCouponFlag(t *testing.T) {
	c := demoCart(t)
	without := c.CalculateTotal("yes", "yes")
	if math.Abs(without-1038.285) > epsilon {
		t.Fatalf("expected lower-case coupon to be ignored, got %v", without)
	}
	if got := c.CalculateTotal("yes", "YES"); got >= without {
		t.Fatalf("expected coupon to reduce total, got %v", got)
	}
}

func TestCalculateTotalEmptyCart(t *testing.T) {
	if got := NewCart().CalculateTotal("yes", "YES"); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestNewCartWithPolicyRejectsOutOfRange(t *testing.T) {
	p := DefaultPolicy()
	p.TaxRate = 1.5
	p.Currency = ""
	if _, err := NewCartWithPolicy(p); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
}
