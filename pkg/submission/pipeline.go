// Package submission runs the validate-then-send state machine triggered by a
// form's submit action. One pipeline instance serves one form session.
package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/draft"
	"github.com/goliatone/go-intake/pkg/formstate"
	"github.com/goliatone/go-intake/pkg/schema"
)

// Status is the pipeline's submission phase.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// ErrSubmitInFlight is returned when Submit is called while a previous submit
// is still talking to the backend. The second call must not reach the backend.
var ErrSubmitInFlight = errors.New("submission: a submit is already in flight")

// Submitter is the backend call the pipeline makes exactly once per
// successful validation pass. It returns the created submission's id.
type Submitter func(ctx context.Context, payload map[string]any) (string, error)

// Transform lets callers adjust the outgoing payload after validation, for
// example to sanitise long-text fields. Nil means send the record as-is.
type Transform func(record map[string]any) map[string]any

// Result reports one submit attempt. FieldErrors is populated only when
// validation stopped the attempt before the backend was called.
type Result struct {
	Status       Status
	SubmissionID string
	FieldErrors  []schema.FieldError
}

// Pipeline orchestrates validate → transform → send → reset for one form
// slot. The submitting state doubles as a mutex: a second Submit while one is
// in flight is refused without touching the backend.
type Pipeline struct {
	submit    Submitter
	transform Transform
	store     *draft.Store
	slot      string
	notifier  Notifier
	logger    *zap.Logger

	mu     sync.Mutex
	status Status
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDraftStore attaches the store whose slot is cleared after success.
func WithDraftStore(store *draft.Store, slot string) Option {
	return func(p *Pipeline) {
		p.store = store
		p.slot = slot
	}
}

// WithNotifier attaches the UI notification sink.
func WithNotifier(notifier Notifier) Option {
	return func(p *Pipeline) {
		if notifier != nil {
			p.notifier = notifier
		}
	}
}

// WithTransform attaches a payload transform applied after validation.
func WithTransform(transform Transform) Option {
	return func(p *Pipeline) {
		p.transform = transform
	}
}

// WithLogger attaches a structured logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New builds a Pipeline around the backend submit call.
func New(submit Submitter, options ...Option) *Pipeline {
	p := &Pipeline{
		submit:   submit,
		notifier: nopNotifier{},
		logger:   zap.NewNop(),
		status:   StatusIdle,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Status returns the current phase.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Acknowledge returns the pipeline to idle after a terminal phase. The UI
// shell calls this when the user edits the form again or dismisses the
// outcome.
func (p *Pipeline) Acknowledge() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusSucceeded || p.status == StatusFailed {
		p.status = StatusIdle
	}
}

// Submit runs the full pass: re-validate everything (including every line
// item, independent of cached outcomes), send once if clean, then clear the
// draft and reset the state on success. On backend failure the state and the
// draft survive untouched so the user can retry without re-entering data.
//
// The returned FormState is the state the UI should continue from: the input
// state on validation failure or backend error, schema defaults on success.
func (p *Pipeline) Submit(ctx context.Context, state formstate.FormState) (formstate.FormState, Result, error) {
	if p.submit == nil {
		return state, Result{Status: StatusIdle}, errors.New("submission: submitter is not configured")
	}

	p.mu.Lock()
	if p.status == StatusSubmitting {
		p.mu.Unlock()
		return state, Result{Status: StatusSubmitting}, ErrSubmitInFlight
	}
	p.status = StatusValidating
	p.mu.Unlock()

	if fieldErrs := state.ValidateAll(); len(fieldErrs) > 0 {
		p.setStatus(StatusIdle)
		p.notifier.Notify(Notification{
			Title:       "Missing information",
			Description: fmt.Sprintf("%d field(s) need attention before submitting", len(fieldErrs)),
			Severity:    SeverityError,
		})
		return state, Result{Status: StatusIdle, FieldErrors: fieldErrs}, nil
	}

	p.setStatus(StatusSubmitting)

	payload := state.PlainRecord()
	if p.transform != nil {
		payload = p.transform(payload)
	}

	id, err := p.submit(ctx, payload)
	if err != nil {
		p.setStatus(StatusFailed)
		p.logger.Error("submission failed", zap.Error(err))
		p.notifier.Notify(Notification{
			Title:       "Submission failed",
			Description: "Your data was kept; please try again",
			Severity:    SeverityError,
		})
		return state, Result{Status: StatusFailed}, fmt.Errorf("submission: backend submit: %w", err)
	}

	p.setStatus(StatusSucceeded)
	p.clearDraft(ctx)
	p.notifier.Notify(Notification{
		Title:       "Submission created",
		Description: "Your form has been successfully submitted",
		Severity:    SeveritySuccess,
	})
	return state.Reset(), Result{Status: StatusSucceeded, SubmissionID: id}, nil
}

// SaveAsDraft persists the state without validating and without resetting
// anything. It is always available, whatever the form looks like.
func (p *Pipeline) SaveAsDraft(ctx context.Context, state formstate.FormState) error {
	if p.store == nil {
		return errors.New("submission: draft store is not configured")
	}
	return p.store.Save(ctx, p.slot, draft.Record{
		SchemaVersion: state.Schema().Version,
		Values:        state.PlainRecord(),
	})
}

func (p *Pipeline) setStatus(status Status) {
	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
}

// clearDraft removes the slot after a successful submission. Persistence
// trouble here must not demote the success, so failures are logged only.
func (p *Pipeline) clearDraft(ctx context.Context) {
	if p.store == nil {
		return
	}
	if err := p.store.Clear(ctx, p.slot); err != nil {
		p.logger.Warn("clearing draft after submit failed", zap.String("slot", p.slot), zap.Error(err))
	}
}
