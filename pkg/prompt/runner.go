package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/session"
	"github.com/goliatone/go-intake/pkg/submission"
)

// Runner drives one intake session through a PromptDriver: restore the draft,
// ask every field in schema order, keep the completion figure in front of the
// user, then submit.
type Runner struct {
	driver PromptDriver
	sess   *session.Session
}

// NewRunner pairs a session with a prompt driver.
func NewRunner(sess *session.Session, driver PromptDriver) *Runner {
	return &Runner{driver: driver, sess: sess}
}

// Run executes the whole flow. A declined submit keeps the draft and returns
// nil; validation failures are reported and leave the draft in place for the
// next run.
func (r *Runner) Run(ctx context.Context) error {
	switch r.sess.Start(ctx) {
	case session.DraftRestored:
		r.info(ctx, "Restored your saved draft; answers show as defaults.")
	case session.DraftDiscarded:
		r.info(ctx, "A saved draft no longer matches the current form and was discarded.")
	}

	if err := r.fill(ctx); err != nil {
		return err
	}

	submit, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: "Submit the form now?",
		Default: true,
		Help:    "Answers stay saved as a draft if you decline.",
	})
	if err != nil {
		return err
	}
	if !submit {
		r.sess.Close()
		r.info(ctx, "Draft saved. Run again to pick up where you left off.")
		return nil
	}

	result, err := r.sess.Submit(ctx)
	if err != nil {
		return err
	}
	if len(result.FieldErrors) > 0 {
		r.info(ctx, fmt.Sprintf("%d field(s) need attention:", len(result.FieldErrors)))
		for _, fieldErr := range result.FieldErrors {
			r.info(ctx, "  - "+fieldErr.Key+": "+fieldErr.Reason)
		}
		r.info(ctx, "Your answers are saved as a draft; run again to fix and submit.")
		return nil
	}
	if result.Status == submission.StatusSucceeded {
		r.info(ctx, "Submitted. Reference: "+result.SubmissionID)
	}
	return nil
}

func (r *Runner) fill(ctx context.Context) error {
	s := r.sess.State().Schema()

	for _, field := range s.Fields {
		value, err := r.ask(ctx, field, r.currentValue(field.Key))
		if err != nil {
			return err
		}
		if err := r.sess.SetField(field.Key, value); err != nil {
			return err
		}
		r.progress(ctx)
	}

	if s.LineItems == nil {
		return nil
	}
	for {
		if err := r.fillItem(ctx, s.LineItems); err != nil {
			return err
		}
		r.progress(ctx)

		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Add another line item?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (r *Runner) fillItem(ctx context.Context, items *schema.LineItemSchema) error {
	id := r.sess.AddItem()
	for _, field := range items.Fields {
		value, err := r.ask(ctx, field, nil)
		if err != nil {
			return err
		}
		if err := r.sess.UpdateItemField(id, field.Key, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) ask(ctx context.Context, field schema.FieldDescriptor, current any) (any, error) {
	message := label(field)
	if current == nil {
		current = field.Default
	}

	switch field.Kind {
	case schema.KindBoolean:
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: def,
			Help:    field.Description,
		})

	case schema.KindEnumChoice:
		index, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      field.Choices,
			DefaultIndex: choiceIndex(field.Choices, current),
			Help:         field.Description,
		})
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(field.Choices) {
			return nil, fmt.Errorf("prompt: no choice selected for %q", field.Key)
		}
		return field.Choices[index], nil

	case schema.KindLongText:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: asText(current),
			Help:    field.Description,
		})

	default:
		return r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   asText(current),
			Help:      field.Description,
			Validator: liveValidator(field),
		})
	}
}

// liveValidator surfaces the field's rule inside the prompt loop so the user
// corrects input immediately instead of at submit time. Optional fields accept
// blank input.
func liveValidator(field schema.FieldDescriptor) func(string) error {
	return func(text string) error {
		if text == "" && !field.Required {
			return nil
		}
		if outcome := field.Check(text); !outcome.OK {
			return errors.New(outcome.Reason)
		}
		return nil
	}
}

func (r *Runner) progress(ctx context.Context) {
	snap := r.sess.Completion()
	r.info(ctx, fmt.Sprintf("Progress: %d%% (%d of %d required fields)",
		snap.Percentage, snap.Completed, snap.TotalRequired))
}

func (r *Runner) currentValue(key string) any {
	value, ok := r.sess.State().Value(key)
	if !ok {
		return nil
	}
	return value
}

func (r *Runner) info(ctx context.Context, msg string) {
	// Informational output is best effort; an interrupted pipe surfaces on
	// the next prompt instead.
	_ = r.driver.Info(ctx, msg)
}

func label(field schema.FieldDescriptor) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Key
}

func choiceIndex(choices []string, current any) int {
	text, _ := current.(string)
	for i, choice := range choices {
		if choice == text {
			return i
		}
	}
	return 0
}

func asText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}
