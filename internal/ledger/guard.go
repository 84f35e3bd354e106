package ledger

import (
	"context" // Context for store operations
	"errors"  // Sentinel error matching
)

// Authorize is the ownership guard: it reads the owning principal of the
// row identified by (table, id) and compares it to the caller. An absent
// row and a row owned by someone else produce the same answer, so the
// caller cannot probe for the existence of records it does not own. The
// guard holds no state and never caches across calls; run it inside the
// same store transaction as the mutation it protects.
func Authorize(ctx context.Context, store Store, principal uint, table string, id uint) error {
	owner, err := store.Owner(ctx, table, id)
	if err != nil {
		var se *StoreError
		if errors.As(err, &se) {
			return err // Infrastructure fault, not an authorization answer
		}
		if errors.Is(err, ErrUnknownTable) {
			return err // Semantic table validation is the store's verdict
		}
		return ErrUnauthorized // Row absent: indistinguishable from foreign-owned
	}
	if owner != principal {
		return ErrUnauthorized // Row owned by a different principal
	}
	return nil
}
