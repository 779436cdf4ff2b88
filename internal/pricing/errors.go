package pricing

import "errors"

var (
	// ErrInvalidPrice is returned when an item price is not a positive finite number.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrInvalidQuantity is returned when an item quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidCategory is returned when an item category is not text.
	ErrInvalidCategory = errors.New("category must be a string")
	// ErrInvalidItemType is returned when a cart is handed something that is not a constructed Item.
	ErrInvalidItemType = errors.New("invalid item type")
	// ErrInvalidPolicy indicates a pricing policy override is out of range.
	ErrInvalidPolicy = errors.New("invalid pricing policy")
)
