package pricing

import "github.com/shopspring/decimal"

// Line is the priced view of one cart item.
type Line struct {
	Name             string
	Category         string
	Quantity         int
	UnitPrice        float64
	EnvironmentalFee float64
	Total            float64
}

// Quote captures every intermediate amount of a cart calculation.
type Quote struct {
	Lines              []Line
	Subtotal           float64
	MemberDiscount     float64
	BigSpenderDiscount float64
	Discounted         float64
	Tax                float64
	CouponDiscount     float64
	Total              float64
	Currency           string
	MemberApplied      bool
	CouponApplied      bool
}

// Quote computes the full price breakdown for the cart.
func (c *Cart) Quote(isMember, hasCoupon string) Quote {
	q := Quote{
		Lines:    make([]Line, 0, len(c.items)),
		Currency: c.policy.Currency,
	}
	for _, it := range c.items {
		q.Lines = append(q.Lines, Line{
			Name:             it.name,
			Category:         it.category,
			Quantity:         it.qty,
			UnitPrice:        it.price,
			EnvironmentalFee: it.envFee,
			Total:            it.Total(),
		})
	}
	q.Subtotal = c.CalculateSubtotal()
	q.Discounted, q.MemberDiscount, q.BigSpenderDiscount = c.discount(q.Subtotal, isMember)
	q.MemberApplied = isMember == MemberFlag

	q.Tax = q.Discounted * c.policy.TaxRate
	total := q.Discounted + q.Tax
	if hasCoupon == CouponFlag {
		q.CouponDiscount = total * c.policy.CouponDiscountRate
		total = total - q.CouponDiscount
		q.CouponApplied = true
	}
	q.Total = total
	return q
}

// RoundAmount rounds a computed amount half away from zero to two decimal places.
func RoundAmount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
