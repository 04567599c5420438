// Package common defines shared constants and sentinel errors used across
// the host, client and admin layers of EmployCD. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Credential Store errors. Neither crosses the bridge: the store turns
	// them into false/nil results.
	ErrStorageUnavailable = errors.New("secure storage unavailable")
	ErrCryptoFailure      = errors.New("crypto failure")
	ErrInvalidStorageKey  = errors.New("invalid storage key")

	// Session errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTransportFailure   = errors.New("transport failure")
	ErrNoSession          = errors.New("no session in sign-in response")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrEntitlementUnknown is returned when the subscription lookup fails.
	// Gates treat it as "not entitled".
	ErrEntitlementUnknown = errors.New("entitlement unknown")

	// Validation errors.
	ErrValidation = errors.New("validation error")
)
