package schema

// Outcome is the result of validating one field value. It is plain data:
// validation never raises an error, it reports one inline so the UI can keep
// the field editable.
type Outcome struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Valid returns the passing outcome.
func Valid() Outcome {
	return Outcome{OK: true}
}

// Invalid returns a failing outcome carrying a human-readable reason.
func Invalid(reason string) Outcome {
	return Outcome{OK: false, Reason: reason}
}

// FieldError scopes a failing outcome to the field (and, for line items, the
// item) it belongs to. Submission reports validation failures as a slice of
// these rather than as Go errors.
type FieldError struct {
	Key    string `json:"key"`
	ItemID string `json:"itemId,omitempty"`
	Reason string `json:"reason"`
}
