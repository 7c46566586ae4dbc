package formstate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-intake/pkg/schema"
)

// ErrLastLineItem is returned when removal would leave the collection below
// the schema's minimum. The caller must surface the refusal, not swallow it.
var ErrLastLineItem = errors.New("formstate: cannot remove the last line item")

// LineItem is one supplier-submitted product entry inside the form. Items are
// identified by a stable id, not position, so inserting or removing siblings
// never corrupts another item's validation state.
type LineItem struct {
	ID       string
	values   map[string]any
	outcomes map[string]schema.Outcome
}

// Value returns the item's current value for key.
func (li LineItem) Value(key string) (any, bool) {
	value, ok := li.values[key]
	return value, ok
}

// OutcomeFor returns the item's last validation outcome for key.
func (li LineItem) OutcomeFor(key string) (schema.Outcome, bool) {
	outcome, ok := li.outcomes[key]
	return outcome, ok
}

func (li LineItem) clone() LineItem {
	values := make(map[string]any, len(li.values))
	for k, v := range li.values {
		values[k] = deepCopy(v)
	}
	outcomes := make(map[string]schema.Outcome, len(li.outcomes))
	for k, v := range li.outcomes {
		outcomes[k] = v
	}
	return LineItem{ID: li.ID, values: values, outcomes: outcomes}
}

// Items returns a copy of the line-item collection in insertion order.
func (f FormState) Items() []LineItem {
	out := make([]LineItem, len(f.items))
	for i, item := range f.items {
		out[i] = item.clone()
	}
	return out
}

// AddItem appends a new line item at schema defaults and returns the new state
// along with the generated stable id.
func (f FormState) AddItem() (FormState, string) {
	return f.addItemWithID("")
}

func (f FormState) addItemWithID(id string) (FormState, string) {
	if f.schema.LineItems == nil {
		return f, ""
	}
	if id == "" {
		id = uuid.NewString()
	}

	values := make(map[string]any, len(f.schema.LineItems.Fields))
	for _, field := range f.schema.LineItems.Fields {
		if field.Default != nil {
			values[field.Key] = field.Default
		}
	}

	next := f.clone()
	next.items = append(next.items, LineItem{
		ID:       id,
		values:   values,
		outcomes: make(map[string]schema.Outcome),
	})
	return next, id
}

// RemoveItem deletes the item with the given id. Removal is refused with
// ErrLastLineItem when the collection would drop below the schema minimum.
func (f FormState) RemoveItem(id string) (FormState, error) {
	idx := f.itemIndex(id)
	if idx < 0 {
		return f, fmt.Errorf("formstate: unknown line item %q", id)
	}
	if f.schema.LineItems != nil && len(f.items) <= f.schema.LineItems.MinItems {
		return f, ErrLastLineItem
	}

	next := f.clone()
	next.items = append(next.items[:idx], next.items[idx+1:]...)
	return next, nil
}

// UpdateItemField replaces one field on one item and re-validates only that
// field. Sibling items and their outcomes are untouched. When both unitCost
// and sellingPrice are present the derived margin is recomputed alongside.
func (f FormState) UpdateItemField(id, key string, value any) (FormState, error) {
	idx := f.itemIndex(id)
	if idx < 0 {
		return f, fmt.Errorf("formstate: unknown line item %q", id)
	}
	field, ok := f.schema.LineItemField(key)
	if !ok {
		return f, fmt.Errorf("formstate: unknown line item field %q", key)
	}

	next := f.clone()
	item := &next.items[idx]
	item.values[key] = value
	item.outcomes[key] = field.Check(value)
	recomputeMargin(item)
	return next, nil
}

func (f FormState) itemIndex(id string) int {
	for i, item := range f.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// recomputeMargin derives the percentage margin from unit cost and selling
// price when both parse as positive numbers. The derived value never carries
// its own validation outcome.
func recomputeMargin(item *LineItem) {
	cost, okCost := asPositive(item.values["unitCost"])
	price, okPrice := asPositive(item.values["sellingPrice"])
	if !okCost || !okPrice {
		delete(item.values, "margin")
		return
	}
	item.values["margin"] = (price - cost) / price * 100
}

func asPositive(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, typed > 0
	case int:
		return float64(typed), typed > 0
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, parsed > 0
	default:
		return 0, false
	}
}
