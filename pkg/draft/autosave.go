package draft

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Autosaver debounces draft saves: rapid field edits collapse into a single
// trailing-edge write once the change stream settles. Saves are last-write-
// wins and persistence failures are logged and swallowed so editing is never
// blocked by storage trouble.
type Autosaver struct {
	store    *Store
	slot     string
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending Record
	dirty   bool
	timer   *time.Timer
}

// NewAutosaver builds a debounced saver for one form slot. An interval of zero
// saves synchronously on every Queue call, which keeps test harnesses simple.
func NewAutosaver(store *Store, slot string, interval time.Duration, logger *zap.Logger) *Autosaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autosaver{
		store:    store,
		slot:     slot,
		interval: interval,
		logger:   logger,
	}
}

// Queue records the latest snapshot and (re)arms the debounce timer. Later
// snapshots supersede earlier unsaved ones.
func (a *Autosaver) Queue(record Record) {
	if a == nil || a.store == nil {
		return
	}
	if a.interval <= 0 {
		a.write(record)
		return
	}

	a.mu.Lock()
	a.pending = record
	a.dirty = true
	if a.timer == nil {
		a.timer = time.AfterFunc(a.interval, a.flush)
	} else {
		a.timer.Reset(a.interval)
	}
	a.mu.Unlock()
}

// Flush writes any pending snapshot immediately and stops the timer. Call it
// on session teardown so a half-finished form is not lost.
func (a *Autosaver) Flush() {
	if a == nil {
		return
	}
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	record, dirty := a.pending, a.dirty
	a.dirty = false
	a.mu.Unlock()

	if dirty {
		a.write(record)
	}
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	record, dirty := a.pending, a.dirty
	a.dirty = false
	a.mu.Unlock()

	if dirty {
		a.write(record)
	}
}

func (a *Autosaver) write(record Record) {
	if err := a.store.Save(context.Background(), a.slot, record); err != nil {
		// Draft persistence must never block editing; log and move on.
		a.logger.Warn("draft autosave failed", zap.String("slot", a.slot), zap.Error(err))
	}
}
