package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Controllers map these to HTTP
// status codes with errors.Is.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPenaltyNotFound  = errors.New("penalty not found")
	ErrSessionNotFound  = errors.New("workout session not found")
	ErrRecordNotFound   = errors.New("record not found")
	ErrUnknownItem      = errors.New("unknown shop item")
	ErrAlreadyPurchased = errors.New("item already purchased")
	ErrInsufficientGems = errors.New("insufficient gems")
)

// ConflictError signals optimistic-lock retry exhaustion. The operation was
// not applied; the caller can safely retry the whole request.
type ConflictError struct {
	Attempts int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent update conflict after %d attempts, please retry", e.Attempts)
}

// IsConflict reports whether err is an optimistic-lock conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
