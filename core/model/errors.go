package model

import "errors"

var (
	// ErrInvalidEnumValue is returned by the normalizer for unrecognized enum
	// input. It aborts the calculation before any network call.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrUnknownFactorKind means a calculator asked for a factor the table does
	// not hold. Valid activities never trigger it.
	ErrUnknownFactorKind = errors.New("unknown factor kind")

	// ErrRemoteUnavailable wraps every remote failure cause. It is recovered
	// by the local fallback and never returned to callers.
	ErrRemoteUnavailable = errors.New("remote computation unavailable")
)
