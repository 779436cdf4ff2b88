// Command checkout prices a sample cart and prints the total.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/noah-isme/cart-pricing/internal/obs"
	"github.com/noah-isme/cart-pricing/internal/pricing"
)

type sampleItem struct {
	name     string
	price    float64
	qty      int
	category string
}

var sampleCart = []sampleItem{
	{"Apple", 1.5, 10, "fruit"},
	{"Banana", 0.5, 5, "fruit"},
	{"Laptop", 1000, 1, "electronics"},
}

func main() {
	member := flag.String("member", strconv.FormatBool(true), `membership flag; only "yes" earns the member discount`)
	coupon := flag.String("coupon", pricing.CouponFlag, `coupon flag; only "YES" applies the coupon`)
	logLevel := flag.String("log-level", "warn", "log level written to stderr")
	flag.Parse()

	logger := obs.NewLoggerTo(os.Stderr, "console", *logLevel)
	run(os.Stdout, logger, sampleCart, *member, *coupon)
}

// run prices items and prints the result. A validation failure yields a total of -1.
func run(out io.Writer, logger zerolog.Logger, items []sampleItem, member, coupon string) float64 {
	total, err := price(items, member, coupon)
	if err != nil {
		logger.Warn().Err(err).Msg("cart rejected")
		fmt.Fprintf(out, "Error: %v\n", err)
		return -1
	}
	if total < 0 {
		fmt.Fprintln(out, "Error in calculation!")
		return total
	}
	fmt.Fprintf(out, "The total price is: $%s\n", strconv.FormatFloat(total, 'f', -1, 64))
	return total
}

func price(items []sampleItem, member, coupon string) (float64, error) {
	cart := pricing.NewCart()
	for _, s := range items {
		item, err := pricing.NewItem(s.name, s.price, s.qty, s.category)
		if err != nil {
			return 0, err
		}
		if err := cart.AddItem(item); err != nil {
			return 0, err
		}
	}
	return cart.CalculateTotal(member, coupon), nil
}
