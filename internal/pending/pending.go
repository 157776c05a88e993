// Package pending implements the pending-exceptions store: a JSONL record
// of blocked commands, identified by a 4-hex short code derived from a
// SHA-256 hash, expiring 24 hours after creation and consumable once.
package pending

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
)

// SchemaVersion is the on-disk record schema this package reads and writes.
const SchemaVersion = 1

// FileName is the default basename of the store under its config directory.
const FileName = "pending_exceptions.jsonl"

// EnvPath overrides the default store path.
const EnvPath = "DCG_PENDING_EXCEPTIONS_PATH"

// ExpiryDuration is how long a record remains active after creation.
const ExpiryDuration = 24 * time.Hour

const timeLayout = "2006-01-02T15:04:05Z"

// RedactionConfig controls how command_redacted is derived. Redaction is
// always forced on for the on-disk record regardless of the caller's
// setting, to minimize disclosure in the store file.
type RedactionConfig struct {
	Enabled       bool
	Mode          string
	MaxArgumentLen int
}

// Record is one pending-exception entry.
type Record struct {
	SchemaVersion    int     `json:"schema_version"`
	ShortCode        string  `json:"short_code"`
	FullHash         string  `json:"full_hash"`
	CreatedAt        string  `json:"created_at"`
	ExpiresAt        string  `json:"expires_at"`
	CWD              string  `json:"cwd"`
	CommandRaw       string  `json:"command_raw"`
	CommandRedacted  string  `json:"command_redacted"`
	Reason           string  `json:"reason"`
	SingleUse        bool    `json:"single_use"`
	ConsumedAt       *string `json:"consumed_at,omitempty"`
}

// IsConsumed reports whether the record has already been used.
func (r *Record) IsConsumed() bool { return r.ConsumedAt != nil }

// New builds a Record for a just-blocked command at the given timestamp.
func New(now time.Time, cwd, commandRaw, reason string, redaction RedactionConfig, singleUse bool) Record {
	created := now.UTC().Format(timeLayout)
	full := computeFullHash(created, cwd, commandRaw)
	redaction.Enabled = true // forced on for the stored record
	return Record{
		SchemaVersion:   SchemaVersion,
		ShortCode:       shortCodeFromHash(full),
		FullHash:        full,
		CreatedAt:       created,
		ExpiresAt:       now.UTC().Add(ExpiryDuration).Format(timeLayout),
		CWD:             cwd,
		CommandRaw:      commandRaw,
		CommandRedacted: redactForPending(commandRaw, redaction),
		Reason:          reason,
		SingleUse:       singleUse,
	}
}

func computeFullHash(createdAt, cwd, commandRaw string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s | %s | %s", createdAt, cwd, commandRaw)))
	return hex.EncodeToString(h[:])
}

func shortCodeFromHash(fullHash string) string {
	if len(fullHash) < 4 {
		return fullHash
	}
	return fullHash[len(fullHash)-4:]
}

// redactForPending is a conservative redaction: when enabled, long
// arguments are truncated; disabling is not honored (see New's contract).
func redactForPending(cmd string, cfg RedactionConfig) string {
	if !cfg.Enabled {
		return cmd
	}
	maxLen := cfg.MaxArgumentLen
	if maxLen <= 0 {
		maxLen = 200
	}
	fields := strings.Fields(cmd)
	for i, f := range fields {
		if len(f) > maxLen {
			fields[i] = f[:maxLen] + "…[redacted]"
		}
	}
	return strings.Join(fields, " ")
}

func isExpired(expiresAt string, now time.Time) bool {
	t, err := time.Parse(timeLayout, expiresAt)
	if err != nil {
		return false
	}
	return now.UTC().After(t)
}

// Maintenance reports what a load/prune pass discarded.
type Maintenance struct {
	PrunedExpired int
	PrunedConsumed int
	ParseErrors   int
}

// IsEmpty reports whether the pass found nothing to report.
func (m Maintenance) IsEmpty() bool {
	return m.PrunedExpired == 0 && m.PrunedConsumed == 0 && m.ParseErrors == 0
}

// Store is the on-disk pending-exceptions file.
type Store struct {
	Path   string
	Logger *log.Logger
}

// DefaultPath resolves the store path: DCG_PENDING_EXCEPTIONS_PATH env var,
// else ${XDG_CONFIG_HOME:-$HOME/.config}/dcg/pending_exceptions.jsonl.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "dcg", FileName)
}

// RecordBlock appends a new record for a blocked command, pruning expired
// and consumed records first and rewriting the file if any were dropped.
func (s *Store) RecordBlock(now time.Time, cwd, commandRaw, reason string, redaction RedactionConfig, singleUse bool) (Record, Maintenance, error) {
	lock, file, err := s.openLocked()
	if err != nil {
		return Record{}, Maintenance{}, err
	}
	defer unlock(lock, file)

	active, maint := loadActiveFromFile(file, now)
	if maint.PrunedExpired > 0 || maint.PrunedConsumed > 0 {
		if err := rewriteRecords(file, active); err != nil {
			return Record{}, maint, err
		}
	}

	rec := New(now, cwd, commandRaw, reason, redaction, singleUse)
	if err := appendRecord(file, rec); err != nil {
		return Record{}, maint, err
	}
	s.logMaintenance(maint, "record_block")
	return rec, maint, nil
}

// LoadActive returns all non-expired, non-consumed records, pruning and
// rewriting the file if needed.
func (s *Store) LoadActive(now time.Time) ([]Record, Maintenance, error) {
	lock, file, err := s.openLocked()
	if err != nil {
		return nil, Maintenance{}, err
	}
	defer unlock(lock, file)

	active, maint := loadActiveFromFile(file, now)
	if maint.PrunedExpired > 0 || maint.PrunedConsumed > 0 {
		if err := rewriteRecords(file, active); err != nil {
			return active, maint, err
		}
	}
	s.logMaintenance(maint, "load_active")
	return active, maint, nil
}

// LookupByCode returns all active records whose short code matches code.
// Collisions are possible and acceptable; callers disambiguate by cwd and
// command.
func (s *Store) LookupByCode(code string, now time.Time) ([]Record, Maintenance, error) {
	active, maint, err := s.LoadActive(now)
	if err != nil {
		return nil, maint, err
	}
	var out []Record
	for _, r := range active {
		if r.ShortCode == code {
			out = append(out, r)
		}
	}
	return out, maint, nil
}

// MarkConsumed sets consumed_at on the record matching fullHash and rewrites
// the store; it is the caller's job to have located the record via
// LookupByCode first.
func (s *Store) MarkConsumed(fullHash string, now time.Time) error {
	lock, file, err := s.openLocked()
	if err != nil {
		return err
	}
	defer unlock(lock, file)

	active, _ := loadActiveFromFile(file, now)
	consumedAt := now.UTC().Format(timeLayout)
	found := false
	for i := range active {
		if active[i].FullHash == fullHash {
			active[i].ConsumedAt = &consumedAt
			found = true
		}
	}
	if !found {
		return fmt.Errorf("pending: no active record with hash %s", fullHash)
	}
	return rewriteRecords(file, active)
}

func (s *Store) logMaintenance(m Maintenance, context string) {
	if m.IsEmpty() || s.Logger == nil {
		return
	}
	s.Logger.Info("pending store maintenance",
		"context", context,
		"pruned_expired", m.PrunedExpired,
		"pruned_consumed", m.PrunedConsumed,
		"parse_errors", m.ParseErrors,
	)
}

func (s *Store) openLocked() (*flock.Flock, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("pending: creating store dir: %w", err)
	}
	lock := flock.New(s.Path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, nil, fmt.Errorf("pending: acquiring lock: %w", err)
	}
	file, err := os.OpenFile(s.Path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, fmt.Errorf("pending: opening store: %w", err)
	}
	return lock, file, nil
}

func unlock(lock *flock.Flock, file *os.File) {
	_ = file.Close()
	_ = lock.Unlock()
}

func loadActiveFromFile(file *os.File, now time.Time) ([]Record, Maintenance) {
	var maint Maintenance
	var active []Record

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return active, maint
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			maint.ParseErrors++
			continue
		}
		if r.IsConsumed() {
			maint.PrunedConsumed++
			continue
		}
		if isExpired(r.ExpiresAt, now) {
			maint.PrunedExpired++
			continue
		}
		active = append(active, r)
	}
	return active, maint
}

func rewriteRecords(file *os.File, records []Record) error {
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("pending: truncating store: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("pending: seeking store: %w", err)
	}
	w := bufio.NewWriter(file)
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("pending: marshaling record: %w", err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("pending: writing record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Sync()
}

func appendRecord(file *os.File, r Record) error {
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("pending: seeking to end: %w", err)
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("pending: marshaling record: %w", err)
	}
	if _, err := file.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("pending: appending record: %w", err)
	}
	return file.Sync()
}
