package domain

import "errors"

// Validation errors: client-correctable, surfaced verbatim.
var (
	ErrOutOfStock         = errors.New("requested quantity exceeds available stock")
	ErrListingUnavailable = errors.New("listing no longer available")
	ErrMixedDeliveryZone  = errors.New("cart spans sellers outside the delivery hostel")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidCode        = errors.New("verification code does not match")
)

// State errors: races and ordering conflicts; the caller may refresh and retry.
var (
	ErrInvalidTransition = errors.New("order is not in the expected state")
	ErrAlreadyVerified   = errors.New("delivery already verified")
	ErrAlreadyReviewed   = errors.New("seller already reviewed for this order")
	ErrNotCompleted      = errors.New("order is not completed")
	ErrAmountMismatch    = errors.New("cart no longer matches the paid amount")
)

// Auth errors.
var ErrBadCredentials = errors.New("invalid email or password")

// Flow errors.
var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrPaymentNotVerified = errors.New("payment not verified")
)
