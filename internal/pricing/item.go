package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"
)

const (
	// ElectronicsCategory is the category that carries an environmental fee.
	ElectronicsCategory = "electronics"
	// EnvironmentalFee is the flat per-line surcharge for electronics.
	EnvironmentalFee = 5.0
)

// Item is a validated cart line. It is immutable once constructed.
type Item struct {
	name     string
	price    float64
	qty      int
	category string
	envFee   float64
	valid    bool
}

// NewItem validates the inputs and returns an Item.
func NewItem(name string, price float64, qty int, category string) (*Item, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPrice, price)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if !utf8.ValidString(category) {
		return nil, ErrInvalidCategory
	}
	var fee float64
	if category == ElectronicsCategory {
		fee = EnvironmentalFee
	}
	return &Item{
		name:     name,
		price:    price,
		qty:      qty,
		category: category,
		envFee:   fee,
		valid:    true,
	}, nil
}

// ItemFromValues builds an Item from loosely typed values, as produced by decoders.
// Quantities must be integers; a float quantity is rejected even when it is whole.
func ItemFromValues(name string, price, qty, category any) (*Item, error) {
	p, ok := toPrice(price)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidPrice, price)
	}
	q, ok := toQuantity(qty)
	if !ok {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidQuantity, qty)
	}
	c, ok := category.(string)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidCategory, category)
	}
	return NewItem(name, p, q, c)
}

func toPrice(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func toQuantity(v any) (int, bool) {
	if n, ok := v.(json.Number); ok {
		i, err := strconv.Atoi(n.String())
		return i, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i > math.MaxInt || i < math.MinInt {
			return 0, false
		}
		return int(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	}
	return 0, false
}

// Total returns price * quantity plus the environmental fee.
func (it *Item) Total() float64 {
	return it.price*float64(it.qty) + it.envFee
}

// Name returns the item name.
func (it *Item) Name() string { return it.name }

// Price returns the unit price.
func (it *Item) Price() float64 { return it.price }

// Quantity returns the number of units.
func (it *Item) Quantity() int { return it.qty }

// Category returns the item category.
func (it *Item) Category() string { return it.category }

// EnvironmentalFee returns the per-line surcharge fixed at construction.
func (it *Item) EnvironmentalFee() float64 { return it.envFee }

// String renders the item for display and logs.
func (it *Item) String() string {
	return fmt.Sprintf("%s - Price: $%s, Quantity: %d, Category: %s",
		it.name, formatAmount(it.price), it.qty, it.category)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
