package forms

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-intake/pkg/schema"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func longTextSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// SanitizeRecord strips markup from every long-text field in the outgoing
// payload. Supplier notes and descriptions travel through emails and admin
// views, so they must never carry live HTML. Returns the same map for
// convenient use as a submission transform.
func SanitizeRecord(s schema.FormSchema, record map[string]any) map[string]any {
	policy := longTextSanitizer()
	for _, field := range s.Fields {
		if field.Kind != schema.KindLongText {
			continue
		}
		if raw, ok := record[field.Key].(string); ok {
			record[field.Key] = strings.TrimSpace(policy.Sanitize(raw))
		}
	}
	return record
}

// SanitizeTransform adapts SanitizeRecord to the submission pipeline's
// transform hook for the given schema.
func SanitizeTransform(s schema.FormSchema) func(map[string]any) map[string]any {
	return func(record map[string]any) map[string]any {
		return SanitizeRecord(s, record)
	}
}
