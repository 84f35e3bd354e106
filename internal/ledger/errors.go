package ledger

import "errors"

// Error taxonomy for the request pipeline. Every error returned by the
// decoder, dispatcher, guard or store is one of these sentinels or a
// *StoreError; the HTTP layer maps each to exactly one status.
var (
	ErrMalformedEnvelope    = errors.New("malformed request envelope")    // Body is not a valid operation envelope
	ErrUnsupportedOperation = errors.New("unsupported operation")         // Operation kind outside the closed set
	ErrMissingIdentifier    = errors.New("missing record identifier")     // update/delete without filters.id
	ErrUnauthorized         = errors.New("unauthorized")                  // Record absent or owned by another principal
	ErrUnknownTable         = errors.New("unknown table")                 // Table not in the store registry
	ErrUnknownColumn        = errors.New("unknown column")                // Filter or data key outside the table's columns
	ErrInsufficientBalance  = errors.New("insufficient balance")          // Conditional debit affected zero rows
	ErrInvalidPayload       = errors.New("invalid payload")               // Data does not fit the target record
	ErrDuplicateRecord      = errors.New("record already exists")         // Uniqueness constraint violation
)

// StoreError wraps an infrastructure failure from the persistent layer.
// The underlying driver message is preserved for logging; the HTTP layer
// never echoes it to the caller.
type StoreError struct {
	Op    string // Store operation: select, insert, update, delete
	Table string // Target table
	Err   error  // Underlying driver error
}

func (e *StoreError) Error() string {
	return "store " + e.Op + " on " + e.Table + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }
