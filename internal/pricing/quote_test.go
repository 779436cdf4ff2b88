package pricing

import (
	"math"
	"testing"
)

func TestQuoteBreakdown(t *testing.T) {
	c := demoCart(t)
	q := c.Quote("yes", "YES")

	if len(q.Lines) != 3 || q.Lines[2].EnvironmentalFee != EnvironmentalFee || q.Lines[2].Total != 1005 {
		t.Fatalf("unexpected lines %+v", q.Lines)
	}
	if q.Subtotal != 1022.5 {
		t.Fatalf("expected subtotal 1022.5, got %v", q.Subtotal)
	}
	if q.MemberDiscount != 51.125 || !q.MemberApplied {
		t.Fatalf("expected member discount 51.125, got %v", q.MemberDiscount)
	}
	if q.BigSpenderDiscount != 10 {
		t.Fatalf("expected big spender discount 10, got %v", q.BigSpenderDiscount)
	}
	if q.Discounted != 961.375 {
		t.Fatalf("expected discounted 961.375, got %v", q.Discounted)
	}
	if math.Abs(q.Tax-76.91) > epsilon {
		t.Fatalf("expected tax 76.91, got %v", q.Tax)
	}
	if !q.CouponApplied || math.Abs(q.CouponDiscount-155.74275) > epsilon {
		t.Fatalf("expected coupon discount 155.74275, got %v", q.CouponDiscount)
	}
	if q.Total != c.CalculateTotal("yes", "YES") {
		t.Fatalf("quote total %v differs from CalculateTotal", q.Total)
	}
	if q.Currency != "USD" {
		t.Fatalf("expected USD, got %s", q.Currency)
	}
}

func TestRoundAmount(t *testing.T) {
	if got := RoundAmount(882.54225).StringFixed(2); got != "882.54" {
		t.Fatalf("expected 882.54, got %s", got)
	}
	if got := RoundAmount(929.475).StringFixed(2); got != "929.48" {
		t.Fatalf("expected 929.48, got %s", got)
	}
}
