// Package intake re-exports the supplier intake lifecycle from the top-level
// module: form schemas, session orchestration, and the submission pipeline.
// Callers that need finer control import the pkg/ packages directly.
package intake

import (
	"fmt"
	"time"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/completion"
	"github.com/goliatone/go-intake/pkg/forms"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/session"
	"github.com/goliatone/go-intake/pkg/submission"
)

// FormSchema aliases the declarative form descriptor set.
type FormSchema = schema.FormSchema

// FieldDescriptor aliases a single field declaration.
type FieldDescriptor = schema.FieldDescriptor

// FieldError aliases one submit-time validation failure.
type FieldError = schema.FieldError

// Snapshot aliases the completion figure shown next to a form.
type Snapshot = completion.Snapshot

// Session aliases the per-form lifecycle coordinator.
type Session = session.Session

// SessionOption aliases session configuration options.
type SessionOption = session.Option

// Result aliases the outcome of one submit attempt.
type Result = submission.Result

// Notification aliases the fire-and-forget UI message the pipeline emits.
type Notification = submission.Notification

// NewSession builds a lifecycle coordinator for the given form. The schema's
// ID doubles as the draft slot key.
func NewSession(form FormSchema, options ...SessionOption) *Session {
	return session.New(form, options...)
}

// NewLineSession builds a session for the supplier new-line form. When
// productTypeID names a catalog entry, its required metafields are folded into
// the schema; an empty id keeps the base field set.
func NewLineSession(productTypeID string, options ...SessionOption) (*Session, error) {
	var productType *catalog.ProductType
	if productTypeID != "" {
		entry, ok := catalog.Default().Type(productTypeID)
		if !ok {
			return nil, fmt.Errorf("intake: unknown product type %q", productTypeID)
		}
		productType = &entry
	}
	return session.New(forms.NewLineSchema(productType), options...), nil
}

// ProductSession builds a session for the single-product form with SKU
// auto-fill from the title wired in; a caller-supplied WithDeriver replaces it.
// Callers still choose the backend call with
// session.WithSubmitter(session.ProductSubmitter).
func ProductSession(options ...SessionOption) *Session {
	opts := append([]SessionOption{session.WithDeriver(forms.AutoSKU(time.Now))}, options...)
	return session.New(forms.ProductSchema(), opts...)
}
