package schema

// FieldKind is the simplified enum for form-friendly field kinds.
type FieldKind string

const (
	KindText       FieldKind = "text"
	KindLongText   FieldKind = "longText"
	KindNumber     FieldKind = "number"
	KindEmail      FieldKind = "email"
	KindURL        FieldKind = "url"
	KindBoolean    FieldKind = "boolean"
	KindEnumChoice FieldKind = "enumChoice"
)

// Validator checks a raw field value and reports the outcome. Implementations
// must be pure: no I/O, no panics, same outcome for the same input.
type Validator func(value any) Outcome

// FieldDescriptor declares a single form input: its key, kind, whether the
// overall form requires it, the validation rule applied on change and at
// submit, and the value a fresh form starts with. Descriptors are immutable;
// define them once per form type.
type FieldDescriptor struct {
	Key         string    `json:"key"`
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Description string    `json:"description,omitempty"`
	Default     any       `json:"default,omitempty"`
	Choices     []string  `json:"choices,omitempty"`
	Validate    Validator `json:"-"`
}

// LineItemSchema describes the nested repeating entity inside a form: one
// supplier line item with its own descriptor set. MinItems is the floor the
// collection must keep to stay submit-eligible.
type LineItemSchema struct {
	Fields   []FieldDescriptor `json:"fields"`
	MinItems int               `json:"minItems"`
}

// FormSchema is the ordered descriptor set for one form type plus an optional
// nested line-item schema. Version participates in draft compatibility checks:
// a stored draft written under a different version is discarded, not migrated.
type FormSchema struct {
	ID        string            `json:"id"`
	Version   string            `json:"version"`
	Fields    []FieldDescriptor `json:"fields"`
	LineItems *LineItemSchema   `json:"lineItems,omitempty"`
}

// Field returns the descriptor for key, reporting whether it exists.
func (s FormSchema) Field(key string) (FieldDescriptor, bool) {
	for _, field := range s.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// LineItemField returns the nested descriptor for key, reporting whether the
// schema carries line items and the key exists.
func (s FormSchema) LineItemField(key string) (FieldDescriptor, bool) {
	if s.LineItems == nil {
		return FieldDescriptor{}, false
	}
	for _, field := range s.LineItems.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// RequiredFields returns the top-level descriptors marked required, in schema
// order.
func (s FormSchema) RequiredFields() []FieldDescriptor {
	var out []FieldDescriptor
	for _, field := range s.Fields {
		if field.Required {
			out = append(out, field)
		}
	}
	return out
}

// Check runs the descriptor's validator against value. Descriptors without an
// explicit rule accept anything, which keeps optional free-form fields cheap
// to declare.
func (d FieldDescriptor) Check(value any) Outcome {
	if d.Validate == nil {
		return Valid()
	}
	return d.Validate(value)
}
