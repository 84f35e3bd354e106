package ledger

import (
	"context" // Context for store operations
	"fmt"     // Error wrapping

	"ledger_service/internal/domain"     // Domain constants
	"ledger_service/internal/moderation" // Injected content classifier

	"github.com/sirupsen/logrus" // Logging library
)

// moderatedTable is the collection whose inserts pass through the content
// classifier before being written.
const moderatedTable = "stories"

// Dispatcher routes a decoded envelope to the matching ledger operation
// handler. It holds no per-request state; the store and classifier are
// injected once at construction.
type Dispatcher struct {
	store      Store                 // Ledger store adapter
	classifier moderation.Classifier // Content classifier, may be nil
}

// NewDispatcher builds the dispatcher around its injected collaborators
func NewDispatcher(store Store, classifier moderation.Classifier) *Dispatcher {
	return &Dispatcher{store: store, classifier: classifier}
}

// Dispatch runs one operation on behalf of the verified principal. The
// switch over the operation set is exhaustive; anything else is an
// unsupported operation reported to the caller, never a fault.
func (d *Dispatcher) Dispatch(ctx context.Context, principal uint, env *Envelope) (any, error) {
	switch env.Operation {
	case OpSelect:
		return d.selectRows(ctx, principal, env)
	case OpInsert:
		return d.insert(ctx, principal, env)
	case OpUpdate:
		return d.update(ctx, principal, env)
	case OpDelete:
		return d.remove(ctx, principal, env)
	case OpGetWallet:
		return d.store.Wallet(ctx, principal)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperation, env.Operation)
	}
}

// selectRows reads rows matching the caller's filters. Every select carries
// a forced user_id predicate: a principal can only ever read its own rows,
// whatever filters the client supplied.
func (d *Dispatcher) selectRows(ctx context.Context, principal uint, env *Envelope) (any, error) {
	filters := make(map[string]any, len(env.Filters)+1)
	for k, v := range env.Filters {
		filters[k] = v // Caller-supplied equality predicates
	}
	filters["user_id"] = principal // Forced scoping, overrides any client value
	return d.store.Read(ctx, env.Table, filters)
}

// insert writes one new owned record. Ownership is stamped by the store
// from the verified principal; content going into the moderated collection
// is classified first and stamped with the verdict.
func (d *Dispatcher) insert(ctx context.Context, principal uint, env *Envelope) (any, error) {
	data := env.Data
	if env.Table == moderatedTable && d.classifier != nil {
		verdict, err := d.classifier.Classify(ctx, text(data), str(data["media_url"]))
		if err != nil {
			return nil, &StoreError{Op: "insert", Table: env.Table, Err: err} // Classifier outage is an infrastructure fault
		}
		status := domain.StoryApproved
		if !verdict.Allowed {
			status = domain.StoryFlagged
		}
		// Copy before stamping so the envelope stays untouched
		stamped := make(map[string]any, len(data)+1)
		for k, v := range data {
			stamped[k] = v
		}
		stamped["status"] = status
		data = stamped
	}
	rec, err := d.store.Insert(ctx, env.Table, principal, data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": principal,   // Acting principal
			"table":   env.Table,   // Target table
			"error":   err.Error(), // Failure detail
		}).Warn("Ledger insert failed")
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": principal, // Acting principal
		"table":   env.Table, // Target table
	}).Info("Ledger insert")
	return rec, nil
}

// update mutates one owned record. The ownership guard and the write run in
// the same store transaction so the guarded row cannot change hands between
// the read and the mutation.
func (d *Dispatcher) update(ctx context.Context, principal uint, env *Envelope) (any, error) {
	id, ok := env.RecordID()
	if !ok {
		return nil, ErrMissingIdentifier // No store round-trip happens
	}
	var affected int64
	err := d.store.Atomic(ctx, func(tx Store) error {
		if err := Authorize(ctx, tx, principal, env.Table, id); err != nil {
			return err
		}
		n, err := tx.Update(ctx, env.Table, id, env.Data)
		affected = n
		return err
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  principal, // Acting principal
		"table":    env.Table, // Target table
		"id":       id,        // Mutated record
		"affected": affected,  // Rows touched
	}).Info("Ledger update")
	return map[string]any{"affected": affected}, nil
}

// remove deletes one owned record under the same guard-in-transaction rule
// as update.
func (d *Dispatcher) remove(ctx context.Context, principal uint, env *Envelope) (any, error) {
	id, ok := env.RecordID()
	if !ok {
		return nil, ErrMissingIdentifier // No store round-trip happens
	}
	var affected int64
	err := d.store.Atomic(ctx, func(tx Store) error {
		if err := Authorize(ctx, tx, principal, env.Table, id); err != nil {
			return err
		}
		n, err := tx.Delete(ctx, env.Table, id)
		affected = n
		return err
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  principal, // Acting principal
		"table":    env.Table, // Target table
		"id":       id,        // Removed record
		"affected": affected,  // Rows touched
	}).Info("Ledger delete")
	return map[string]any{"affected": affected}, nil
}

// text joins the textual fields the classifier should see
func text(data map[string]any) string {
	return str(data["title"]) + "\n" + str(data["body"])
}

// str reads a string field out of a generic payload
func str(v any) string {
	s, _ := v.(string)
	return s
}
