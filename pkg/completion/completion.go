// Package completion derives the progress indicator shown next to intake
// forms: how many required fields currently hold a valid value.
package completion

import (
	"math"

	"github.com/goliatone/go-intake/pkg/formstate"
	"github.com/goliatone/go-intake/pkg/schema"
)

// Snapshot is the derived completion figure for one form state. It has no
// identity of its own; recompute it instead of mutating it.
type Snapshot struct {
	Completed     int `json:"completed"`
	TotalRequired int `json:"totalRequired"`
	Percentage    int `json:"percentage"`
}

// Compute walks every required descriptor in the schema and counts the ones
// whose current value is present and valid. Required line-item fields count
// once per item actually in the collection; when the schema demands at least
// one item but none exist yet, the first prospective item's required fields
// still count toward the total so the percentage cannot reach 100 on an empty
// collection.
func Compute(s schema.FormSchema, state formstate.FormState) Snapshot {
	var completed, total int

	for _, field := range s.Fields {
		if !field.Required {
			continue
		}
		total++
		value, ok := state.Value(field.Key)
		if !ok || isEmpty(value) {
			continue
		}
		if field.Check(value).OK {
			completed++
		}
	}

	if s.LineItems != nil {
		items := state.Items()
		slots := len(items)
		if slots < s.LineItems.MinItems {
			slots = s.LineItems.MinItems
		}
		for _, field := range s.LineItems.Fields {
			if !field.Required {
				continue
			}
			total += slots
			for _, item := range items {
				value, ok := item.Value(field.Key)
				if !ok || isEmpty(value) {
					continue
				}
				if field.Check(value).OK {
					completed++
				}
			}
		}
	}

	return Snapshot{
		Completed:     completed,
		TotalRequired: total,
		Percentage:    percentage(completed, total),
	}
}

func percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	default:
		return false
	}
}
