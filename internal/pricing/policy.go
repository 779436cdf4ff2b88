package pricing

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Policy holds the rates and thresholds a Cart prices with.
type Policy struct {
	TaxRate             float64 `validate:"gte=0,lte=1"`
	MemberDiscountRate  float64 `validate:"gte=0,lte=1"`
	BigSpenderThreshold float64 `validate:"gte=0"`
	BigSpenderDiscount  float64 `validate:"gte=0"`
	CouponDiscountRate  float64 `validate:"gte=0,lte=1"`
	Currency            string  `validate:"required,alpha,len=3"`
}

// DefaultPolicy returns the standard checkout policy.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:             0.08,
		MemberDiscountRate:  0.05,
		BigSpenderThreshold: 100,
		BigSpenderDiscount:  10,
		CouponDiscountRate:  0.15,
		Currency:            "USD",
	}
}

var policyValidator = validator.New()

// Validate reports every out-of-range field wrapped in ErrInvalidPolicy.
func (p Policy) Validate() error {
	err := policyValidator.Struct(p)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(fields, "; "))
}
