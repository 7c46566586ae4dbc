// Package draft persists incomplete form snapshots so a supplier can resume a
// session later on the same device. One slot holds at most one draft per form
// type; saves overwrite, successful submissions clear.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Record is the persisted snapshot of a form session. Values is the plain
// key/value form of the state; SchemaVersion gates restore so an incompatible
// draft is discarded rather than force-fit.
type Record struct {
	SchemaVersion string         `json:"schemaVersion"`
	Values        map[string]any `json:"values"`
	SavedAt       time.Time      `json:"savedAt"`
}

// KV is the minimal key-value contract the store runs on: one string slot per
// form type, scoped to the current device. Implementations must treat Set as
// an overwrite and Remove of a missing key as a no-op.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store serialises Records into a KV slot. Save is idempotent and safe to
// call repeatedly; callers are expected to debounce (see Autosaver).
type Store struct {
	kv     KV
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a structured logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore wraps a KV backend.
func NewStore(kv KV, options ...Option) *Store {
	store := &Store{kv: kv, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Save overwrites the slot with the record. A zero SavedAt is stamped with the
// current time.
func (s *Store) Save(ctx context.Context, slot string, record Record) error {
	if s == nil || s.kv == nil {
		return fmt.Errorf("draft: store is not configured")
	}
	if record.SavedAt.IsZero() {
		record.SavedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("draft: encode record: %w", err)
	}
	if err := s.kv.Set(ctx, slot, string(payload)); err != nil {
		return fmt.Errorf("draft: save %q: %w", slot, err)
	}
	return nil
}

// Load returns the draft stored in the slot. Absent or unparseable payloads
// report no draft; a corrupt draft is logged and treated as missing, never
// surfaced as an error that would block the form.
func (s *Store) Load(ctx context.Context, slot string) (Record, bool) {
	if s == nil || s.kv == nil {
		return Record{}, false
	}
	payload, found, err := s.kv.Get(ctx, slot)
	if err != nil {
		s.logger.Warn("draft load failed", zap.String("slot", slot), zap.Error(err))
		return Record{}, false
	}
	if !found {
		return Record{}, false
	}

	var record Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		s.logger.Warn("discarding corrupt draft", zap.String("slot", slot), zap.Error(err))
		return Record{}, false
	}
	return record, true
}

// Clear removes the slot's draft. Called after a successful submission;
// clearing an empty slot is a no-op.
func (s *Store) Clear(ctx context.Context, slot string) error {
	if s == nil || s.kv == nil {
		return fmt.Errorf("draft: store is not configured")
	}
	if err := s.kv.Remove(ctx, slot); err != nil {
		return fmt.Errorf("draft: clear %q: %w", slot, err)
	}
	return nil
}
