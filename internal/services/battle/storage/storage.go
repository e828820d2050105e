// Package storage defines the action journal contract.
package storage

import (
	"context"
	"time"
)

// Action outcomes recorded in the journal.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// ActionRecord is one durable record of a mutating action attempt.
type ActionRecord struct {
	ID        int64
	Action    string
	SubjectID int64
	Detail    string
	Outcome   string
	LastError string
	CreatedAt time.Time
}

// ActionStore persists action attempt records.
type ActionStore interface {
	RecordAction(ctx context.Context, record ActionRecord) error
	ListActions(ctx context.Context, limit int) ([]ActionRecord, error)
}
