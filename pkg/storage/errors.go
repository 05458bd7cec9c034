package storage

import "errors"

// ErrInsufficientCredits is returned when a user's balance cannot cover a
// deduction. This is the expected "please top up" outcome, not a fault.
var ErrInsufficientCredits = errors.New("insufficient ficore credits")

// ErrUserNotFound is returned when the user record does not exist. For an
// authenticated caller this indicates a bug and is logged as an error.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when creating a user that already has a wallet.
var ErrUserExists = errors.New("user already exists")

// ErrInvalidAmount is returned when a ledger operation is called with a
// non-positive amount. The operation never partially executes.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrListNotFound is returned when a grocery list does not exist or is not
// owned by the caller.
var ErrListNotFound = errors.New("grocery list not found")

// ErrItemNotFound is returned when a grocery item does not exist.
var ErrItemNotFound = errors.New("grocery item not found")
