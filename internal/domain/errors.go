package domain

import "errors"

var (
	// ErrNotFound is returned when a lookup by id has no match.
	ErrNotFound = errors.New("not found")
	// ErrUnknownDomain is returned for an inventory domain that is not registered.
	ErrUnknownDomain = errors.New("unknown inventory domain")
	// ErrMalformedCriteria is returned when a filter value cannot be parsed.
	ErrMalformedCriteria = errors.New("malformed criteria")
	// ErrSourceUnavailable wraps missing or corrupt corpus files.
	ErrSourceUnavailable = errors.New("corpus source unavailable")
	// ErrGenerationInput is returned when a generator meta-table cannot be loaded.
	ErrGenerationInput = errors.New("generation input missing")

	ErrInvalidOTP       = errors.New("invalid or expired otp")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrAlreadyExists    = errors.New("already exists")
	ErrUnauthorized     = errors.New("unauthorized")
)
