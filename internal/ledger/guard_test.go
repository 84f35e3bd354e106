package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	d, _ := newTestDispatcher(t)
	tx := earn(t, d, 1, 10, "daily")
	store := d.store

	if err := Authorize(context.Background(), store, 1, "transactions", tx.ID); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
	if err := Authorize(context.Background(), store, 2, "transactions", tx.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign principal: expected ErrUnauthorized, got %v", err)
	}
	if err := Authorize(context.Background(), store, 1, "transactions", 424242); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("absent record: expected ErrUnauthorized, got %v", err)
	}
	if err := Authorize(context.Background(), store, 1, "secrets", tx.ID); !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("unknown table: expected ErrUnknownTable, got %v", err)
	}
}
