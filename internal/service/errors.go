package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrDuplicateAccount     = errors.New("account already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrRateLimited          = errors.New("rate limited")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
)

// storageErr envuelve un fallo de base de datos conservando la causa.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

func upstreamErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, op, err)
}
