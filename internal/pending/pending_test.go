package pending

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return &Store{Path: filepath.Join(dir, FileName)}
}

func TestShortCodeDeterministic(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r1 := New(now, "/repo", "git reset --hard", "r", RedactionConfig{}, true)
	r2 := New(now, "/repo", "git reset --hard", "r", RedactionConfig{}, true)
	if r1.ShortCode != r2.ShortCode || r1.FullHash != r2.FullHash {
		t.Fatalf("expected deterministic hash/short code, got %+v vs %+v", r1, r2)
	}
	if len(r1.ShortCode) != 4 {
		t.Fatalf("expected 4-hex short code, got %q", r1.ShortCode)
	}
	if r1.ShortCode != r1.FullHash[len(r1.FullHash)-4:] {
		t.Fatalf("short code must be last 4 hex chars of full hash")
	}
}

func TestRecordBlockAndLookupRoundTrip(t *testing.T) {
	s := newStore(t)
	now := time.Now()
	rec, _, err := s.RecordBlock(now, "/repo", "git reset --hard", "destructive", RedactionConfig{Enabled: false}, true)
	if err != nil {
		t.Fatal(err)
	}

	found, _, err := s.LookupByCode(rec.ShortCode, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].FullHash != rec.FullHash {
		t.Fatalf("expected to find recorded entry, got %+v", found)
	}

	if err := s.MarkConsumed(rec.FullHash, now); err != nil {
		t.Fatal(err)
	}
	active, _, err := s.LoadActive(now)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range active {
		if a.FullHash == rec.FullHash {
			t.Fatalf("expected consumed record to be pruned from active load")
		}
	}
}

func TestPrunesExpiredAndConsumed(t *testing.T) {
	s := newStore(t)
	past := time.Now().Add(-48 * time.Hour)
	if _, _, err := s.RecordBlock(past, "/repo", "git reset --hard", "r", RedactionConfig{}, true); err != nil {
		t.Fatal(err)
	}
	active, maint, err := s.LoadActive(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Fatalf("expected expired record pruned, got %+v", active)
	}
	if maint.PrunedExpired != 1 {
		t.Fatalf("expected PrunedExpired=1, got %+v", maint)
	}
}

func TestFailOpenOnCorruptLines(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(s.Path, []byte("not json\n{\"bad\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if _, _, err := s.RecordBlock(now, "/repo", "git reset --hard", "r", RedactionConfig{}, true); err != nil {
		t.Fatal(err)
	}
	active, maint, err := s.LoadActive(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("expected the valid record to survive corrupt lines, got %+v", active)
	}
	if maint.ParseErrors == 0 {
		t.Fatalf("expected parse errors counted")
	}
}

func TestRedactionForcedOnForStoredRecord(t *testing.T) {
	now := time.Now()
	longArg := make([]byte, 300)
	for i := range longArg {
		longArg[i] = 'a'
	}
	cmd := "echo " + string(longArg)
	r := New(now, "/repo", cmd, "r", RedactionConfig{Enabled: false, MaxArgumentLen: 10}, true)
	if r.CommandRedacted == cmd {
		t.Fatalf("expected redaction to be forced on even when caller disabled it")
	}
}
