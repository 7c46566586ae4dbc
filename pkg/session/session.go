// Package session coordinates one open intake form: it owns the current
// FormState, recomputes completion after every edit, queues debounced draft
// saves, and delegates submit to the submission pipeline. All methods are
// expected to be called from a single UI goroutine; the internal mutex only
// protects against a stray background read.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/backend"
	"github.com/goliatone/go-intake/pkg/completion"
	"github.com/goliatone/go-intake/pkg/draft"
	"github.com/goliatone/go-intake/pkg/formstate"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/submission"
)

// DraftOutcome reports what Start did with a previously persisted draft.
type DraftOutcome string

const (
	// DraftNone means no draft existed for the form's slot.
	DraftNone DraftOutcome = "none"
	// DraftRestored means the draft matched the schema version and the
	// session now continues from it.
	DraftRestored DraftOutcome = "restored"
	// DraftDiscarded means a draft existed but its schema version no longer
	// matches; it was cleared rather than force-fit onto the new schema.
	DraftDiscarded DraftOutcome = "discarded"
)

// Session is the lifecycle coordinator for one form slot. Build it with New,
// call Start to pick up any draft, then feed it edits; Submit runs the full
// pipeline and Close flushes any unsaved draft.
type Session struct {
	mu       sync.Mutex
	state    formstate.FormState
	progress completion.Snapshot

	store     *draft.Store
	saver     *draft.Autosaver
	pipeline  *submission.Pipeline
	client    backend.Client
	submit    submission.Submitter
	transform submission.Transform
	derive    Deriver
	notifier  submission.Notifier
	logger    *zap.Logger
	clock     func() time.Time
	debounce  time.Duration
	slot      string

	// manual tracks top-level fields the user set directly; derived-field
	// rules never overwrite them.
	manual map[string]bool
}

// Deriver computes dependent field values after a top-level edit: it receives
// the edited key and the post-edit state and returns the fields to update.
// Fields the user already edited by hand are skipped.
type Deriver func(editedKey string, state formstate.FormState) map[string]any

// Option configures a Session.
type Option func(*Session)

// WithStore attaches the draft store backing auto-save and restore.
func WithStore(store *draft.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithBackend attaches the platform client. Unless WithSubmitter overrides it,
// submits file a supplier submission through the client.
func WithBackend(client backend.Client) Option {
	return func(s *Session) {
		s.client = client
	}
}

// WithSubmitter overrides the backend call made at submit time. Use
// ProductSubmitter for the single-product form variant.
func WithSubmitter(submit submission.Submitter) Option {
	return func(s *Session) {
		s.submit = submit
	}
}

// WithNotifier attaches the UI notification sink shared with the pipeline.
func WithNotifier(notifier submission.Notifier) Option {
	return func(s *Session) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithLogger attaches a structured logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp draft snapshots.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithDebounce sets the auto-save settle interval. Zero saves synchronously on
// every edit.
func WithDebounce(interval time.Duration) Option {
	return func(s *Session) {
		s.debounce = interval
	}
}

// WithTransform attaches a payload transform applied after validation, before
// the backend call.
func WithTransform(transform submission.Transform) Option {
	return func(s *Session) {
		s.transform = transform
	}
}

// WithDeriver registers a derived-field rule, for example SKU auto-fill from
// the product title.
func WithDeriver(derive Deriver) Option {
	return func(s *Session) {
		s.derive = derive
	}
}

// SupplierSubmitter adapts the platform's supplier-submission call to the
// pipeline's Submitter shape.
func SupplierSubmitter(client backend.Client) submission.Submitter {
	return func(ctx context.Context, payload map[string]any) (string, error) {
		result, err := client.CreateSupplierSubmission(ctx, payload)
		return result.ID, err
	}
}

// ProductSubmitter adapts the platform's product create for the simpler
// single-product form.
func ProductSubmitter(client backend.Client) submission.Submitter {
	return func(ctx context.Context, payload map[string]any) (string, error) {
		result, err := client.CreateProduct(ctx, payload)
		return result.ID, err
	}
}

// New builds a Session for the given form schema. The schema's ID doubles as
// the draft slot key.
func New(s schema.FormSchema, options ...Option) *Session {
	sess := &Session{
		state:    formstate.New(s),
		notifier: submission.NotifierFunc(func(submission.Notification) {}),
		logger:   zap.NewNop(),
		clock:    time.Now,
		debounce: 500 * time.Millisecond,
		slot:     s.ID,
		manual:   make(map[string]bool),
	}
	for _, opt := range options {
		if opt != nil {
			opt(sess)
		}
	}

	if sess.submit == nil && sess.client != nil {
		sess.submit = SupplierSubmitter(sess.client)
	}

	if sess.store != nil {
		sess.saver = draft.NewAutosaver(sess.store, sess.slot, sess.debounce, sess.logger)
	}

	pipelineOpts := []submission.Option{
		submission.WithNotifier(sess.notifier),
		submission.WithLogger(sess.logger),
	}
	if sess.store != nil {
		pipelineOpts = append(pipelineOpts, submission.WithDraftStore(sess.store, sess.slot))
	}
	if sess.transform != nil {
		pipelineOpts = append(pipelineOpts, submission.WithTransform(sess.transform))
	}
	sess.pipeline = submission.New(sess.submit, pipelineOpts...)

	sess.progress = completion.Compute(s, sess.state)
	return sess
}

// Start restores a persisted draft into the session, if one exists and its
// schema version still matches. A stale draft is cleared so it cannot shadow
// future sessions, and the caller gets DraftDiscarded to surface a notice.
func (s *Session) Start(ctx context.Context) DraftOutcome {
	if s.store == nil {
		return DraftNone
	}

	record, found := s.store.Load(ctx, s.slot)
	if !found {
		return DraftNone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.SchemaVersion != s.state.Schema().Version {
		s.logger.Info("discarding stale draft",
			zap.String("slot", s.slot),
			zap.String("draftVersion", record.SchemaVersion),
			zap.String("schemaVersion", s.state.Schema().Version),
		)
		if err := s.store.Clear(ctx, s.slot); err != nil {
			s.logger.Warn("clearing stale draft failed", zap.String("slot", s.slot), zap.Error(err))
		}
		return DraftDiscarded
	}

	s.state = formstate.FromRecord(s.state.Schema(), record.Values)
	s.progress = completion.Compute(s.state.Schema(), s.state)
	// Restored values were typed in an earlier session; treat them as
	// user-set so derived-field rules do not overwrite them.
	for key := range record.Values {
		if key != "lineItems" {
			s.manual[key] = true
		}
	}
	s.logger.Info("draft restored", zap.String("slot", s.slot), zap.Time("savedAt", record.SavedAt))
	return DraftRestored
}

// SetField applies one top-level edit: update the value, re-validate that
// field, run any derived-field rule, refresh completion, and queue a debounced
// draft save.
func (s *Session) SetField(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.SetField(key, value)
	if err != nil {
		return err
	}
	s.manual[key] = true
	s.applyLocked(s.deriveLocked(key, next))
	return nil
}

// deriveLocked applies the derived-field rule after an edit. A field the user
// has set directly is never overwritten by a derived value. Caller holds s.mu.
func (s *Session) deriveLocked(editedKey string, next formstate.FormState) formstate.FormState {
	if s.derive == nil {
		return next
	}
	for key, value := range s.derive(editedKey, next) {
		if key == editedKey || s.manual[key] {
			continue
		}
		if derived, err := next.SetField(key, value); err == nil {
			next = derived
		}
	}
	return next
}

// AddItem appends a line item at defaults and returns its stable id.
func (s *Session) AddItem() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, id := s.state.AddItem()
	s.applyLocked(next)
	return id
}

// RemoveItem deletes a line item; removing the last one is refused with
// formstate.ErrLastLineItem.
func (s *Session) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.RemoveItem(id)
	if err != nil {
		return err
	}
	s.applyLocked(next)
	return nil
}

// UpdateItemField applies one line-item edit, mirroring SetField.
func (s *Session) UpdateItemField(id, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.UpdateItemField(id, key, value)
	if err != nil {
		return err
	}
	s.applyLocked(next)
	return nil
}

// State returns the current form state.
func (s *Session) State() formstate.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Completion returns the progress snapshot as of the last edit.
func (s *Session) Completion() completion.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Status returns the submission pipeline's current phase.
func (s *Session) Status() submission.Status {
	return s.pipeline.Status()
}

// Acknowledge returns the pipeline to idle after a terminal submit outcome.
// Call it when the user dismisses the result or starts editing again.
func (s *Session) Acknowledge() {
	s.pipeline.Acknowledge()
}

// Submit flushes any pending draft write, then runs the full pipeline pass.
// On success the session continues from a fresh state at schema defaults and
// the submission is recorded on the platform's audit trail.
func (s *Session) Submit(ctx context.Context) (submission.Result, error) {
	if s.saver != nil {
		s.saver.Flush()
	}

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	next, result, err := s.pipeline.Submit(ctx, state)

	s.mu.Lock()
	s.state = next
	s.progress = completion.Compute(s.state.Schema(), s.state)
	s.mu.Unlock()

	if err == nil && result.Status == submission.StatusSucceeded {
		s.audit(ctx, result.SubmissionID)
	}
	return result, err
}

// SaveDraft persists the current state immediately, skipping the debounce and
// skipping validation. Always available regardless of form completeness.
func (s *Session) SaveDraft(ctx context.Context) error {
	if s.store == nil {
		return errors.New("session: draft store is not configured")
	}
	s.mu.Lock()
	record := s.snapshotLocked()
	s.mu.Unlock()
	return s.store.Save(ctx, s.slot, record)
}

// Close flushes any pending draft write. Call it on session teardown.
func (s *Session) Close() {
	if s.saver != nil {
		s.saver.Flush()
	}
}

// applyLocked installs the next state, refreshes completion, and queues the
// debounced save. Caller holds s.mu.
func (s *Session) applyLocked(next formstate.FormState) {
	s.state = next
	s.progress = completion.Compute(s.state.Schema(), s.state)
	if s.saver != nil {
		s.saver.Queue(s.snapshotLocked())
	}
}

func (s *Session) snapshotLocked() draft.Record {
	return draft.Record{
		SchemaVersion: s.state.Schema().Version,
		Values:        s.state.PlainRecord(),
		SavedAt:       s.clock().UTC(),
	}
}

// audit records the successful submission on the platform's trail. Audit
// trouble never demotes the submit outcome; it is logged and dropped.
func (s *Session) audit(ctx context.Context, submissionID string) {
	if s.client == nil {
		return
	}
	err := s.client.LogAuditEvent(ctx, "intake_submission_created", "intake", map[string]any{
		"submissionId": submissionID,
		"slot":         s.slot,
	})
	if err != nil {
		s.logger.Warn("audit event failed", zap.String("submissionId", submissionID), zap.Error(err))
	}
}
