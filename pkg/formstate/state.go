package formstate

import (
	"fmt"

	"github.com/goliatone/go-intake/pkg/schema"
)

// FormState is the current value of one form session: a value map plus the
// last validation outcome per touched field, and the nested line-item
// collection. Every operation returns a new FormState rather than mutating in
// place, so readers never observe a half-applied edit.
type FormState struct {
	schema   schema.FormSchema
	values   map[string]any
	outcomes map[string]schema.Outcome
	items    []LineItem
}

// New seeds a FormState at schema defaults with an empty line-item collection.
func New(s schema.FormSchema) FormState {
	values := make(map[string]any, len(s.Fields))
	for _, field := range s.Fields {
		if field.Default != nil {
			values[field.Key] = field.Default
		}
	}
	return FormState{
		schema:   s,
		values:   values,
		outcomes: make(map[string]schema.Outcome),
	}
}

// Schema returns the schema this state was built from.
func (f FormState) Schema() schema.FormSchema {
	return f.schema
}

// SetField replaces the value for key, re-runs that field's validator, and
// records the outcome. Unrelated fields are left untouched; the form only
// re-validates everything at submit time.
func (f FormState) SetField(key string, value any) (FormState, error) {
	field, ok := f.schema.Field(key)
	if !ok {
		return f, fmt.Errorf("formstate: unknown field %q", key)
	}

	next := f.clone()
	next.values[key] = value
	next.outcomes[key] = field.Check(value)
	return next, nil
}

// Value returns the current value for key.
func (f FormState) Value(key string) (any, bool) {
	value, ok := f.values[key]
	return value, ok
}

// OutcomeFor returns the last recorded validation outcome for key. Fields the
// user never touched have no outcome.
func (f FormState) OutcomeFor(key string) (schema.Outcome, bool) {
	outcome, ok := f.outcomes[key]
	return outcome, ok
}

// Reset returns a fresh FormState at schema defaults. Used after a successful
// submission.
func (f FormState) Reset() FormState {
	return New(f.schema)
}

// PlainRecord flattens the state into a key/value map suitable for draft
// persistence and submission payloads. Line items are emitted under the
// "lineItems" key as a slice of per-item maps carrying their stable ids.
func (f FormState) PlainRecord() map[string]any {
	record := make(map[string]any, len(f.values)+1)
	for key, value := range f.values {
		record[key] = value
	}
	if len(f.items) > 0 {
		items := make([]any, 0, len(f.items))
		for _, item := range f.items {
			entry := make(map[string]any, len(item.values)+1)
			entry["id"] = item.ID
			for key, value := range item.values {
				entry[key] = value
			}
			items = append(items, entry)
		}
		record["lineItems"] = items
	}
	return record
}

// FromRecord rebuilds a FormState from a previously flattened record, dropping
// keys the schema no longer declares. Every restored value is re-validated so
// completion tracking is accurate immediately after a draft load.
func FromRecord(s schema.FormSchema, record map[string]any) FormState {
	state := New(s)
	for key, value := range record {
		if key == "lineItems" {
			continue
		}
		if restored, err := state.SetField(key, value); err == nil {
			state = restored
		}
	}

	items, _ := record["lineItems"].([]any)
	for _, raw := range items {
		entry, ok := raw.(map[string]any)
		if !ok || s.LineItems == nil {
			continue
		}
		var id string
		if v, ok := entry["id"].(string); ok {
			id = v
		}
		state, id = state.addItemWithID(id)
		for key, value := range entry {
			if key == "id" {
				continue
			}
			if updated, err := state.UpdateItemField(id, key, value); err == nil {
				state = updated
			}
		}
	}
	return state
}

// ValidateAll runs a full validation pass over every field in the schema and
// every present line item, independent of cached per-field outcomes. Untouched
// required fields surface here even though live validation never saw them.
func (f FormState) ValidateAll() []schema.FieldError {
	var errs []schema.FieldError
	for _, field := range f.schema.Fields {
		outcome := field.Check(f.values[field.Key])
		if !outcome.OK {
			errs = append(errs, schema.FieldError{Key: field.Key, Reason: outcome.Reason})
		}
	}
	if f.schema.LineItems != nil {
		if len(f.items) < f.schema.LineItems.MinItems {
			errs = append(errs, schema.FieldError{
				Key:    "lineItems",
				Reason: fmt.Sprintf("at least %d line item(s) required", f.schema.LineItems.MinItems),
			})
		}
		for _, item := range f.items {
			for _, field := range f.schema.LineItems.Fields {
				outcome := field.Check(item.values[field.Key])
				if !outcome.OK {
					errs = append(errs, schema.FieldError{
						Key:    field.Key,
						ItemID: item.ID,
						Reason: outcome.Reason,
					})
				}
			}
		}
	}
	return errs
}

func (f FormState) clone() FormState {
	values := make(map[string]any, len(f.values))
	for key, value := range f.values {
		values[key] = deepCopy(value)
	}
	outcomes := make(map[string]schema.Outcome, len(f.outcomes))
	for key, outcome := range f.outcomes {
		outcomes[key] = outcome
	}
	items := make([]LineItem, len(f.items))
	for i, item := range f.items {
		items[i] = item.clone()
	}
	return FormState{
		schema:   f.schema,
		values:   values,
		outcomes: outcomes,
		items:    items,
	}
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
