package model

import (
	"errors"
	"fmt"
)

// Sentinels for quote redemption outcomes. Each one is a distinct, explicit
// state; redemption never silently re-prices.
var (
	ErrQuoteNotFound        = errors.New("pricing quote not found")
	ErrQuoteExpired         = errors.New("pricing quote expired")
	ErrQuoteAlreadyRedeemed = errors.New("pricing quote already redeemed")
)

// ErrDuplicateLockRequest is returned while an identical cart is already in
// the middle of being locked. The client retries after the first submission
// settles.
var ErrDuplicateLockRequest = errors.New("a price lock for this cart is already being issued")

// ValidationError reports malformed input (dimensions, quantities, selectors).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NoPriceMatchError means the selector set is well formed but no active rule
// resolves it. A catalog gap, not a client error; never substituted with a
// guessed price.
type NoPriceMatchError struct {
	ProductID string
	Selectors PriceSelectors
	LineIndex int // -1 when not part of a cart
}

func (e *NoPriceMatchError) Error() string {
	if e.LineIndex >= 0 {
		return fmt.Sprintf("no price rule matches product %s (cart line %d)", e.ProductID, e.LineIndex)
	}
	return fmt.Sprintf("no price rule matches product %s", e.ProductID)
}

// InsufficientStockError names the SKU that would be driven negative.
type InsufficientStockError struct {
	SKU       string
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %.0f, available %.0f", e.SKU, e.Requested, e.Available)
}

// PersistenceError wraps a transient storage failure. Callers surface a
// generic retry message and keep the cause for logging.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
