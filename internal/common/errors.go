// Package common defines shared constants and sentinel errors used across
// the SwapMarket client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Collection/lookup errors.
	ErrNotFound = errors.New("not found")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")

	// Follow machine.
	ErrSelfFollow = errors.New("cannot follow own profile")

	// Trade actions.
	ErrActionNotAllowed = errors.New("action not allowed for current trade state")

	// Review draft validation.
	ErrNoActiveDraft = errors.New("no active review draft")
	ErrEmptyComment  = errors.New("comment must not be empty")

	// OTP session.
	ErrNoSession    = errors.New("no active verification session")
	ErrEmptyCode    = errors.New("code must not be empty")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeInvalid  = errors.New("verification code is not valid")
	ErrInvalidEmail = errors.New("invalid email address")
)
