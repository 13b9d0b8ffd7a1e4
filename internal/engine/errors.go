package engine

import (
	"errors"

	"github.com/talgya/retail-tycoon/internal/finance"
	"github.com/talgya/retail-tycoon/internal/player"
	"github.com/talgya/retail-tycoon/internal/store"
)

var (
	// ErrGameOver is returned by every mutating action once the player is bankrupt.
	ErrGameOver = errors.New("game over")
	// ErrUnknownProduct means the product ID is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
)

// Errors from the domain packages, re-exported so callers only need engine.
var (
	ErrInsufficientFunds  = player.ErrInsufficientFunds
	ErrUnknownStore       = player.ErrUnknownStore
	ErrNotRetail          = player.ErrNotRetail
	ErrInvalidQuantity    = player.ErrInvalidQuantity
	ErrInvalidAmount      = player.ErrInvalidAmount
	ErrInvalidPrice       = store.ErrInvalidPrice
	ErrNotStocked         = store.ErrNotStocked
	ErrStaffLimitExceeded = store.ErrStaffLimitExceeded
	ErrNoStaffToFire      = store.ErrNoStaffToFire
	ErrLoanNotFound       = finance.ErrLoanNotFound
	ErrLoanTooSmall       = finance.ErrLoanTooSmall
	ErrLoanTooLarge       = finance.ErrLoanTooLarge
	ErrDebtLimit          = finance.ErrDebtLimit
	ErrInvalidTerm        = finance.ErrInvalidTerm
	ErrUnknownStock       = finance.ErrUnknownStock
	ErrInsufficientShares = finance.ErrInsufficientShares
)
