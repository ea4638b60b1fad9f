package dataset

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := OpenSnapshotStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("OpenSnapshotStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSnapshotRoundtrip(t *testing.T) {
	s := openTestStore(t)

	body := []byte("province,jan\nเชียงใหม่,100\n")
	if err := s.Put(SourceVisitors, "https://example.com/visitors.csv", body); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, fetchedAt, err := s.Get(SourceVisitors)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("body = %q, want %q", got, body)
	}
	if fetchedAt.IsZero() {
		t.Error("fetchedAt is zero")
	}
}

func TestSnapshotReplace(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put(SourceFactors, "u", []byte("old")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(SourceFactors, "u", []byte("new")); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, _, err := s.Get(SourceFactors)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("body = %q, want replaced value", got)
	}
}

func TestSnapshotMissing(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.Get("never-stored")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}
