package quote

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/cart-pricing/internal/common"
	"github.com/noah-isme/cart-pricing/internal/obs"
	"github.com/noah-isme/cart-pricing/internal/pricing"
)

// ItemInput is one requested cart line. Price, quantity and category are left
// untyped so that type mismatches surface as pricing validation errors.
type ItemInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Price    any    `json:"price"`
	Quantity any    `json:"quantity"`
	Category any    `json:"category"`
}

// Input is the quote request payload.
type Input struct {
	Items  []ItemInput `json:"items" validate:"max=500,dive"`
	Member string      `json:"member" validate:"max=16"`
	Coupon string      `json:"coupon" validate:"max=16"`
}

// Line is a priced cart line in the response.
type Line struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	EnvironmentalFee float64 `json:"environmental_fee"`
	Total            float64 `json:"total"`
}

// Display holds amounts rounded to cents for presentation.
type Display struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// Output is the quote response payload.
type Output struct {
	ID                 string  `json:"id"`
	Currency           string  `json:"currency"`
	Lines              []Line  `json:"lines"`
	Subtotal           float64 `json:"subtotal"`
	MemberDiscount     float64 `json:"member_discount"`
	BigSpenderDiscount float64 `json:"big_spender_discount"`
	Discounted         float64 `json:"discounted_subtotal"`
	Tax                float64 `json:"tax"`
	CouponDiscount     float64 `json:"coupon_discount"`
	Total              float64 `json:"total"`
	Display            Display `json:"display"`
}

// Service prices carts submitted over the API.
type Service struct {
	Policy  pricing.Policy
	Metrics *obs.QuoteMetrics
	Logger  zerolog.Logger
	NewID   func() uuid.UUID
}

func (s *Service) newID() uuid.UUID {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New()
}

// Quote builds a fresh cart from in and prices it.
func (s *Service) Quote(ctx context.Context, in Input) (Output, error) {
	_, span := otel.Tracer("quote").Start(ctx, "quote.Compute")
	defer span.End()

	cart, err := pricing.NewCartWithPolicy(s.Policy)
	if err != nil {
		s.Metrics.ObserveRejected("invalid_policy")
		return Output{}, common.NewAppError("INTERNAL", "pricing policy misconfigured", http.StatusInternalServerError, err)
	}
	for i, raw := range in.Items {
		item, err := pricing.ItemFromValues(raw.Name, raw.Price, raw.Quantity, raw.Category)
		if err != nil {
			appErr := itemError(err).WithDetails(map[string]any{"index": i})
			s.Metrics.ObserveRejected(appErr.Code)
			s.Logger.Info().Err(err).Int("index", i).Msg("quote rejected")
			return Output{}, appErr
		}
		if err := cart.AddItem(item); err != nil {
			s.Metrics.ObserveRejected("invalid_item")
			return Output{}, itemError(err)
		}
	}

	q := cart.Quote(in.Member, in.Coupon)
	if !finite(q.Subtotal) || !finite(q.Total) {
		s.Metrics.ObserveRejected("AMOUNT_OUT_OF_RANGE")
		s.Logger.Info().Int("items", len(q.Lines)).Msg("quote amount out of range")
		return Output{}, common.NewAppError("AMOUNT_OUT_OF_RANGE", "quoted amount is out of range", http.StatusUnprocessableEntity, nil)
	}
	out := toOutput(s.newID(), q)
	span.SetAttributes(
		attribute.Int("quote.items", len(out.Lines)),
		attribute.Float64("quote.total", out.Total),
		attribute.Bool("quote.member", q.MemberApplied),
		attribute.Bool("quote.coupon", q.CouponApplied),
	)
	s.Metrics.ObserveQuote(q.Total, q.MemberApplied, q.BigSpenderDiscount > 0, q.CouponApplied)
	s.Logger.Debug().Str("quote_id", out.ID).Int("items", len(out.Lines)).Float64("total", q.Total).Msg("quote computed")
	return out, nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func itemError(err error) *common.AppError {
	code := "INVALID_ITEM"
	switch {
	case errors.Is(err, pricing.ErrInvalidPrice):
		code = "INVALID_PRICE"
	case errors.Is(err, pricing.ErrInvalidQuantity):
		code = "INVALID_QUANTITY"
	case errors.Is(err, pricing.ErrInvalidCategory):
		code = "INVALID_CATEGORY"
	}
	return common.NewAppError(code, err.Error(), http.StatusUnprocessableEntity, err)
}

func toOutput(id uuid.UUID, q pricing.Quote) Output {
	lines := make([]Line, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, Line{
			Name:             l.Name,
			Category:         l.Category,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			EnvironmentalFee: l.EnvironmentalFee,
			Total:            l.Total,
		})
	}
	discount := q.MemberDiscount + q.BigSpenderDiscount + q.CouponDiscount
	return Output{
		ID:                 id.String(),
		Currency:           q.Currency,
		Lines:              lines,
		Subtotal:           q.Subtotal,
		MemberDiscount:     q.MemberDiscount,
		BigSpenderDiscount: q.BigSpenderDiscount,
		Discounted:         q.Discounted,
		Tax:                q.Tax,
		CouponDiscount:     q.CouponDiscount,
		Total:              q.Total,
		Display: Display{
			Subtotal: pricing.RoundAmount(q.Subtotal).StringFixed(2),
			Discount: pricing.RoundAmount(discount).StringFixed(2),
			Tax:      pricing.RoundAmount(q.Tax).StringFixed(2),
			Total:    pricing.RoundAmount(q.Total).StringFixed(2),
		},
	}
}
