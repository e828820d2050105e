package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/battlebot/internal/services/battle/storage"
)

func TestRecordAndListActions(t *testing.T) {
	store := openTempStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.RecordAction(context.Background(), storage.ActionRecord{
		Action:    "Claim Mine",
		SubjectID: 512199,
		Outcome:   storage.OutcomeFailed,
		LastError: "api request failed",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("record action: %v", err)
	}
	if err := store.RecordAction(context.Background(), storage.ActionRecord{
		Action:    "Claim Mine",
		SubjectID: 512199,
		Detail:    "You won!",
		Outcome:   storage.OutcomeSucceeded,
		CreatedAt: now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("record action second: %v", err)
	}

	records, err := store.ListActions(context.Background(), 10)
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records len = %d, want 2", len(records))
	}
	if records[0].Outcome != storage.OutcomeSucceeded {
		t.Fatalf("records[0].outcome = %q, want %q", records[0].Outcome, storage.OutcomeSucceeded)
	}
	if records[0].Detail != "You won!" {
		t.Fatalf("records[0].detail = %q, want %q", records[0].Detail, "You won!")
	}
	if records[1].LastError != "api request failed" {
		t.Fatalf("records[1].last_error = %q", records[1].LastError)
	}
	if !records[1].CreatedAt.Equal(now) {
		t.Fatalf("records[1].created_at = %v, want %v", records[1].CreatedAt, now)
	}

	limited, err := store.ListActions(context.Background(), 1)
	if err != nil {
		t.Fatalf("list actions limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited len = %d, want 1", len(limited))
	}
}

func TestRecordActionValidation(t *testing.T) {
	store := openTempStore(t)

	if err := store.RecordAction(context.Background(), storage.ActionRecord{}); err == nil {
		t.Fatal("expected validation error for empty record")
	}
	if err := store.RecordAction(context.Background(), storage.ActionRecord{Action: "Feed Crabs", Outcome: "maybe"}); err == nil {
		t.Fatal("expected validation error for unknown outcome")
	}
	if _, err := store.ListActions(context.Background(), 0); err == nil {
		t.Fatal("expected validation error for zero limit")
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.RecordAction(context.Background(), storage.ActionRecord{Action: "Craft Food", Outcome: storage.OutcomeSkipped}); err != nil {
		t.Fatalf("record action: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	records, err := reopened.ListActions(context.Background(), 5)
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(records) != 1 || records[0].Action != "Craft Food" {
		t.Fatalf("records = %+v, want one Craft Food record", records)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battle.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
