package shop

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateProduct = errors.New("product with the same productId already exists")

	ErrEmptySearch       = errors.New("missing search term")
	ErrInvalidProduct    = errors.New("invalid product payload")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNothingToUpdate   = errors.New("neither quantity nor price supplied")
)
