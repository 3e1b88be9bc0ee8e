package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Feedback is one completed questionnaire. Records are append-only: once
// written they are never updated or deleted, and the same anonymous id may
// appear on any number of records (one per submission).
type Feedback struct {
	ID          string
	AnonymousID string
	Answers     []string // same order as the question set
	SubmittedAt time.Time
}
