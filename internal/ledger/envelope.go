package ledger

import (
	"encoding/json" // JSON decoding of the raw request body
	"strconv"       // String to integer conversion for filter values
)

// Operation is the closed set of ledger operation kinds. New operations are
// added by extending this set and the dispatcher's switch, never by
// open-ended string dispatch.
type Operation string

// Supported operation kinds
const (
	OpSelect    Operation = "select"     // Read rows matching filters
	OpInsert    Operation = "insert"     // Write one new owned record
	OpUpdate    Operation = "update"     // Mutate one owned record by id
	OpDelete    Operation = "delete"     // Remove one owned record by id
	OpGetWallet Operation = "get_wallet" // Read the caller's wallet row
)

// Envelope is the decoded, validated representation of one client request.
// It is transient and never persisted.
type Envelope struct {
	Operation Operation      `json:"operation"` // Operation kind
	Table     string         `json:"table"`     // Target collection
	Data      map[string]any `json:"data"`      // Operation payload
	Filters   map[string]any `json:"filters"`   // Equality predicates
}

// Decode parses a raw request body into an Envelope. It rejects bodies that
// are not well-formed JSON or that omit operation/table where required, and
// performs no semantic validation beyond that (unknown tables are the store
// adapter's problem, unknown operations the dispatcher's).
func Decode(body []byte) (*Envelope, error) {
	var env Envelope // Envelope to decode into
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, ErrMalformedEnvelope // Not well-formed structured data
	}
	// Operation is always required
	if env.Operation == "" {
		return nil, ErrMalformedEnvelope
	}
	// Table is required for every operation except get_wallet, which is
	// implicitly scoped to the wallets collection
	if env.Table == "" && env.Operation != OpGetWallet {
		return nil, ErrMalformedEnvelope
	}
	return &env, nil
}

// RecordID extracts filters.id as a record identifier. JSON numbers arrive
// as float64 and clients may also send the id as a string; both are
// accepted. Returns false if the filter is absent or not a positive integer.
func (e *Envelope) RecordID() (uint, bool) {
	v, ok := e.Filters["id"]
	if !ok {
		return 0, false // No id filter present
	}
	switch id := v.(type) {
	case float64:
		if id > 0 && id == float64(uint(id)) {
			return uint(id), true // Numeric id
		}
	case string:
		if n, err := strconv.ParseUint(id, 10, 64); err == nil && n > 0 {
			return uint(n), true // String-encoded id
		}
	}
	return 0, false // Unusable id value
}
