// Package common defines shared constants and sentinel errors used across
// the ThreatWatch client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Transport-level errors (no response reached the client).
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors. ErrUnauthorized is returned for every 401, after the
	// stored credential has been cleared.
	ErrUnauthorized = errors.New("unauthorized")

	// Local validation errors (never sent over the network).
	ErrValidation = errors.New("validation error")

	// Session identity errors.
	ErrNoSessionEmail = errors.New("account has no email address associated")
	ErrNoSessionPhone = errors.New("account has no phone number associated")
)
