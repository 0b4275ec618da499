package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates the connector configuration is missing
	// required fields or carries values that cannot work.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector type tag.
	ErrUnsupportedType = errors.New("unsupported connector type")

	// ErrUnsupportedOperation indicates the operation is not available on
	// this source (e.g., write-back on a flat file).
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrConnectionFailed indicates the data source is unreachable.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrNotConnected indicates an operation was attempted before Connect.
	ErrNotConnected = errors.New("not connected")

	// ErrAuthInvalid indicates credentials were rejected by the server or
	// by the data source.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrSyncInProgress indicates a sync cycle is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrRetryExhausted indicates a bounded retry loop used up every
	// attempt without success.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrSetupRequired indicates no persisted agent configuration exists.
	ErrSetupRequired = errors.New("agent setup required")
)
