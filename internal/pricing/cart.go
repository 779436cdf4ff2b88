package pricing

const (
	// MemberFlag is the only isMember value that earns the member discount.
	MemberFlag = "yes"
	// CouponFlag is the only hasCoupon value that applies the coupon.
	CouponFlag = "YES"
)

// Cart is an append-only, insertion-ordered collection of items priced under a Policy.
// A Cart is owned by a single caller and is not safe for concurrent mutation.
type Cart struct {
	items  []*Item
	policy Policy
}

// NewCart returns an empty cart using DefaultPolicy.
func NewCart() *Cart {
	return &Cart{policy: DefaultPolicy()}
}

// NewCartWithPolicy returns an empty cart using the provided policy after validating it.
func NewCartWithPolicy(p Policy) (*Cart, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Cart{policy: p}, nil
}

// Policy returns the policy the cart prices with.
func (c *Cart) Policy() Policy { return c.policy }

// AddItem appends item to the cart. Items not produced by NewItem are rejected.
func (c *Cart) AddItem(item *Item) error {
	if item == nil || !item.valid {
		return ErrInvalidItemType
	}
	c.items = append(c.items, item)
	return nil
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int { return len(c.items) }

// CalculateSubtotal sums every line total in insertion order.
func (c *Cart) CalculateSubtotal() float64 {
	var subtotal float64
	for _, it := range c.items {
		subtotal += it.Total()
	}
	return subtotal
}

// ApplyDiscounts applies the member discount, then the big-spender discount against
// the already reduced amount. The result is not floored at zero.
func (c *Cart) ApplyDiscounts(subtotal float64, isMember string) float64 {
	subtotal, _, _ = c.discount(subtotal, isMember)
	return subtotal
}

// CalculateTotal prices the cart: subtotal, discounts, tax, then coupon.
func (c *Cart) CalculateTotal(isMember, hasCoupon string) float64 {
	return c.Quote(isMember, hasCoupon).Total
}

func (c *Cart) discount(subtotal float64, isMember string) (float64, float64, float64) {
	var member, bigSpender float64
	if isMember == MemberFlag {
		member = subtotal * c.policy.MemberDiscountRate
		subtotal = subtotal - member
	}
	if subtotal > c.policy.BigSpenderThreshold {
		bigSpender = c.policy.BigSpenderDiscount
		subtotal = subtotal - bigSpender
	}
	return subtotal, member, bigSpender
}
