package ledger

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrParentNotFound   = errors.New("parent account not found")
	ErrDuplicateAccount = errors.New("account already exists under parent")
	ErrInvalidAmount    = errors.New("amount must be positive with at most two decimal places")
	ErrNotTwoSplits     = errors.New("transaction does not have exactly two splits")
)
