package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_feedback_submitted'").Scan(&count)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	if count != 1 {
		t.Error("index idx_feedback_submitted not found in sqlite_master")
	}
}

// TestSaveAndGetFeedback saves a record and retrieves it by the assigned id.
func TestSaveAndGetFeedback(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	want := Feedback{
		AnonymousID: "0a1b2c",
		Answers:     []string{"4", "Good environment", "More coffee", "5", "None"},
		SubmittedAt: now,
	}

	id, err := s.SaveFeedback(want)
	if err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if id == "" {
		t.Fatal("SaveFeedback returned empty id")
	}

	got, err := s.GetFeedback(id)
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if got.ID != id {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}
	if got.AnonymousID != want.AnonymousID {
		t.Errorf("AnonymousID = %q, want %q", got.AnonymousID, want.AnonymousID)
	}
	if len(got.Answers) != len(want.Answers) {
		t.Fatalf("len(Answers) = %d, want %d", len(got.Answers), len(want.Answers))
	}
	for i := range want.Answers {
		if got.Answers[i] != want.Answers[i] {
			t.Errorf("Answers[%d] = %q, want %q", i, got.Answers[i], want.Answers[i])
		}
	}
	if !got.SubmittedAt.Equal(now) {
		t.Errorf("SubmittedAt = %v, want %v", got.SubmittedAt, now)
	}
}

func TestGetFeedbackNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetFeedback("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestListFeedbackOrder verifies newest-first ordering and the limit.
func TestListFeedbackOrder(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.SaveFeedback(Feedback{
			AnonymousID: fmt.Sprintf("anon-%d", i),
			Answers:     []string{fmt.Sprintf("answer %d", i)},
			SubmittedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("SaveFeedback #%d: %v", i, err)
		}
	}

	all, err := s.ListFeedback(0)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i := 0; i < len(all)-1; i++ {
		if all[i].SubmittedAt.Before(all[i+1].SubmittedAt) {
			t.Errorf("records not in descending order at index %d", i)
		}
	}
	if all[0].AnonymousID != "anon-2" {
		t.Errorf("newest record = %q, want anon-2", all[0].AnonymousID)
	}

	limited, err := s.ListFeedback(2)
	if err != nil {
		t.Fatalf("ListFeedback(2): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}

// TestDuplicateAnonymousID verifies repeat submissions from the same
// respondent produce distinct records.
func TestDuplicateAnonymousID(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.SaveFeedback(Feedback{AnonymousID: "same", Answers: []string{"first"}})
	if err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	id2, err := s.SaveFeedback(Feedback{AnonymousID: "same", Answers: []string{"second"}})
	if err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if id1 == id2 {
		t.Error("two submissions share an id")
	}

	n, err := s.CountFeedback()
	if err != nil {
		t.Fatalf("CountFeedback: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestListFeedbackEmpty(t *testing.T) {
	s := openTestStore(t)

	all, err := s.ListFeedback(0)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len = %d, want 0", len(all))
	}
}
