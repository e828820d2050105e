package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/louisbranch/battlebot/internal/services/battle/storage"
	battlesqlite "github.com/louisbranch/battlebot/internal/services/battle/storage/sqlite"
)

// PrintHistory writes the newest limit journal records from the store at
// dbPath to w, newest first.
func PrintHistory(ctx context.Context, dbPath string, limit int, w io.Writer) error {
	if limit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", limit)
	}
	if strings.TrimSpace(dbPath) == "" {
		dbPath = defaultBattleDB
	}
	store, err := battlesqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open battle sqlite store: %w", err)
	}
	defer store.Close()

	records, err := store.ListActions(ctx, limit)
	if err != nil {
		return fmt.Errorf("list actions: %w", err)
	}
	return writeHistory(w, records)
}

func writeHistory(w io.Writer, records []storage.ActionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no actions recorded")
		return err
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-10s %-14s %s", r.CreatedAt.UTC().Format(time.RFC3339), r.Outcome, r.Action, r.Detail)
		if r.LastError != "" {
			line += "  error: " + r.LastError
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
