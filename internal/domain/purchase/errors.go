package purchase

import "errors"

var (
	// ErrPurchaseNotFound is returned when a purchase is not found
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrNegativePrice is returned when the price fails monetary sanity checks
	ErrNegativePrice = errors.New("price must not be negative")

	// ErrUnsupportedCurrency is returned for unknown currency codes
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrDuplicatePurchase is returned when an identical non-refunded purchase
	// already exists inside the dedup window
	ErrDuplicatePurchase = errors.New("duplicate purchase")
)
