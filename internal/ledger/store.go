package ledger

import (
	"context"       // Context for store operations
	"encoding/json" // Payload to model conversion
	"errors"        // Sentinel error matching
	"fmt"           // Error wrapping

	"ledger_service/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Store is the ledger store adapter: the only component that touches the
// isolated schema, constructed with the elevated connection in main and
// never from ad hoc environment reads.
type Store interface {
	// Read returns all rows in table matching the equality filters.
	Read(ctx context.Context, table string, filters map[string]any) (any, error)
	// Insert writes one new record with user_id stamped to owner, ignoring
	// any client-supplied user_id, and returns the stored record.
	Insert(ctx context.Context, table string, owner uint, data map[string]any) (any, error)
	// Update applies data to the row with the given id and reports how many
	// rows were affected. Ownership fields in data are discarded.
	Update(ctx context.Context, table string, id uint, data map[string]any) (int64, error)
	// Delete removes the row with the given id.
	Delete(ctx context.Context, table string, id uint) (int64, error)
	// Owner returns the owning principal of the row with the given id, or
	// gorm.ErrRecordNotFound when the row is absent.
	Owner(ctx context.Context, table string, id uint) (uint, error)
	// Wallet returns the wallet row for a principal, or nil when none
	// exists (zero rows is not an error).
	Wallet(ctx context.Context, userID uint) (*domain.Wallet, error)
	// Atomic runs fn against a transactional view of the store; every write
	// inside fn commits or rolls back together.
	Atomic(ctx context.Context, fn func(Store) error) error
}

// ownedRecord is satisfied by every model reachable through the generic
// table registry.
type ownedRecord interface {
	Owner() uint
	SetOwner(uint)
}

// tableSpec binds a table name to constructors for its record and row-slice
// types and to its set of client-addressable columns.
type tableSpec struct {
	newRecord func() ownedRecord  // Fresh zero record
	newSlice  func() any          // Fresh empty row slice
	columns   map[string]struct{} // Columns filters and data may name
}

// cols builds a column set
func cols(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// GormStore implements Store over a *gorm.DB opened with the elevated
// ledger-schema credentials. The table registry is closed: anything outside
// it is an unknown table.
type GormStore struct {
	db     *gorm.DB             // Elevated connection (or transaction inside Atomic)
	tables map[string]tableSpec // Closed table registry
}

// NewGormStore builds the store adapter around the injected elevated
// connection. Wallets are deliberately absent from the registry: a wallet
// is created on first credit and mutated only by transaction application,
// so its reads go through Wallet and its writes through applyBalance, never
// through the generic paths.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
		tables: map[string]tableSpec{
			"transactions": {
				newRecord: func() ownedRecord { return &domain.Transaction{} },
				newSlice:  func() any { return &[]domain.Transaction{} },
				columns:   cols("id", "user_id", "type", "amount", "reason", "created_at"),
			},
			"stories": {
				newRecord: func() ownedRecord { return &domain.Story{} },
				newSlice:  func() any { return &[]domain.Story{} },
				columns:   cols("id", "user_id", "title", "body", "media_url", "status", "created_at"),
			},
		},
	}
}

// spec resolves a table name against the registry
func (s *GormStore) spec(table string) (tableSpec, error) {
	ts, ok := s.tables[table]
	if !ok {
		return tableSpec{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return ts, nil
}

// Read returns all rows in table matching the equality filters
func (s *GormStore) Read(ctx context.Context, table string, filters map[string]any) (any, error) {
	ts, err := s.spec(table) // Resolve table
	if err != nil {
		return nil, err
	}
	// A filter naming a column the table does not have is a caller
	// mistake, not an infrastructure fault
	for k := range filters {
		if _, ok := ts.columns[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
	}
	rows := ts.newSlice()                   // Destination slice
	q := s.db.WithContext(ctx).Table(table) // Scope the query to the table
	if len(filters) > 0 {
		q = q.Where(filters) // Equality predicates, parameterized by GORM
	}
	if err := q.Find(rows).Error; err != nil {
		return nil, &StoreError{Op: "select", Table: table, Err: err}
	}
	return rows, nil
}

// Insert writes one new record with ownership stamped from the verified
// principal. Transaction inserts additionally apply the amount to the
// owner's wallet inside the same store transaction.
func (s *GormStore) Insert(ctx context.Context, table string, owner uint, data map[string]any) (any, error) {
	ts, err := s.spec(table) // Resolve table
	if err != nil {
		return nil, err
	}
	rec := ts.newRecord() // Fresh record to populate
	// The client never controls identity or ownership fields on insert
	clean := make(map[string]any, len(data))
	for k, v := range data {
		if k != "id" && k != "user_id" {
			clean[k] = v
		}
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(b, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err) // Field type mismatch
	}
	rec.SetOwner(owner) // Stamp the verified principal, always
	// Transaction records carry a balance effect; record write and balance
	// mutation commit or roll back together
	if t, ok := rec.(*domain.Transaction); ok {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := applyBalance(tx, t); err != nil {
				return err // Roll back the record write as well
			}
			return tx.Create(t).Error
		})
		if err != nil {
			return nil, classify("insert", table, err)
		}
		return t, nil
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, classify("insert", table, err)
	}
	return rec, nil
}

// applyBalance applies a transaction's amount to its owner's wallet. The
// invariant "debit only if sufficient" is expressed in the UPDATE itself so
// concurrent spends cannot overdraw.
func applyBalance(tx *gorm.DB, t *domain.Transaction) error {
	if t.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidPayload)
	}
	switch t.Type {
	case domain.TxEarn:
		// First credit provisions the wallet row implicitly
		var w domain.Wallet
		if err := tx.Where(domain.Wallet{UserID: t.UserID}).FirstOrCreate(&w).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Wallet{}).
			Where("user_id = ?", t.UserID).
			Update("balance", gorm.Expr("balance + ?", t.Amount)).Error
	case domain.TxSpend:
		// Conditional debit: zero affected rows means the balance guard failed
		res := tx.Model(&domain.Wallet{}).
			Where("user_id = ? AND balance >= ?", t.UserID, t.Amount).
			Update("balance", gorm.Expr("balance - ?", t.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidPayload, t.Type)
	}
}

// Update applies data to the row with the given id
func (s *GormStore) Update(ctx context.Context, table string, id uint, data map[string]any) (int64, error) {
	ts, err := s.spec(table) // Resolve table
	if err != nil {
		return 0, err
	}
	// Ownership is not reassignable and ids are immutable
	clean := make(map[string]any, len(data))
	for k, v := range data {
		if k != "id" && k != "user_id" {
			clean[k] = v
		}
	}
	// Same caller-mistake treatment as filters in Read
	for k := range clean {
		if _, ok := ts.columns[k]; !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
	}
	if len(clean) == 0 {
		return 0, nil // Nothing left to apply
	}
	res := s.db.WithContext(ctx).Model(ts.newRecord()).Where("id = ?", id).Updates(clean)
	if res.Error != nil {
		return 0, classify("update", table, res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes the row with the given id
func (s *GormStore) Delete(ctx context.Context, table string, id uint) (int64, error) {
	ts, err := s.spec(table) // Resolve table
	if err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(ts.newRecord())
	if res.Error != nil {
		return 0, classify("delete", table, res.Error)
	}
	return res.RowsAffected, nil
}

// Owner returns the owning principal of one row
func (s *GormStore) Owner(ctx context.Context, table string, id uint) (uint, error) {
	if _, err := s.spec(table); err != nil {
		return 0, err
	}
	var row struct{ UserID uint } // Only the ownership column is read
	err := s.db.WithContext(ctx).Table(table).Select("user_id").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err // Absent row, surfaced as-is for the guard to collapse
	}
	if err != nil {
		return 0, &StoreError{Op: "select", Table: table, Err: err}
	}
	return row.UserID, nil
}

// Wallet returns the wallet row for a principal, or nil when none exists
func (s *GormStore) Wallet(ctx context.Context, userID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Zero rows is empty success, not an error
	}
	if err != nil {
		return nil, &StoreError{Op: "select", Table: "wallets", Err: err}
	}
	return &w, nil
}

// Atomic runs fn inside one database transaction
func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, tables: s.tables}) // Transactional view, same registry
	})
}

// classify decides whether a write failure is a row-level error the caller
// can act on or an infrastructure fault
func classify(op, table string, err error) error {
	switch {
	case errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrDuplicateRecord):
		return err // Already a row-level sentinel
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, table)
	default:
		return &StoreError{Op: op, Table: table, Err: err}
	}
}
