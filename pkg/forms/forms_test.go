package forms_test

import (
	"testing"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/formstate"
	"github.com/goliatone/go-intake/pkg/forms"
	"github.com/goliatone/go-intake/pkg/schema"
)

func TestNewLineSchemaShape(t *testing.T) {
	s := forms.NewLineSchema(nil)

	if s.ID != forms.NewLineDraftSlot || s.Version != forms.NewLineSchemaVersion {
		t.Fatalf("schema identity = %s/%s", s.ID, s.Version)
	}
	if s.LineItems == nil || s.LineItems.MinItems != 1 {
		t.Fatal("line item schema missing or wrong minimum")
	}

	for _, key := range []string{"supplierName", "supplierEmail", "brandName", "expectedLaunchDate", "productType", "termsAccepted"} {
		field, ok := s.Field(key)
		if !ok {
			t.Fatalf("field %s missing", key)
		}
		if !field.Required {
			t.Fatalf("field %s not required", key)
		}
	}

	for _, key := range []string{"website", "notes"} {
		field, ok := s.Field(key)
		if !ok || field.Required {
			t.Fatalf("field %s should be optional: %+v, %v", key, field, ok)
		}
	}
}

func TestNewLineSchemaValidationRules(t *testing.T) {
	s := forms.NewLineSchema(nil)

	cases := []struct {
		key   string
		value any
		ok    bool
	}{
		{"supplierName", "A", false},
		{"supplierName", "Acme", true},
		{"supplierEmail", "not-an-email", false},
		{"supplierEmail", "hello@acme.test", true},
		{"productType", "fragrance", true},
		{"productType", "electronics", false},
		{"website", "", true},
		{"website", "https://acme.test", true},
		{"website", "not a url", false},
		{"termsAccepted", false, false},
		{"termsAccepted", true, true},
	}

	for _, tc := range cases {
		field, ok := s.Field(tc.key)
		if !ok {
			t.Fatalf("field %s missing", tc.key)
		}
		if got := field.Check(tc.value); got.OK != tc.ok {
			t.Fatalf("%s(%v) = %+v, want ok=%v", tc.key, tc.value, got, tc.ok)
		}
	}
}

func TestNewLineItemRules(t *testing.T) {
	s := forms.NewLineSchema(nil)

	for _, key := range []string{"unitCost", "sellingPrice", "moq", "leadTimeDays"} {
		field, ok := s.LineItemField(key)
		if !ok || !field.Required {
			t.Fatalf("numeric field %s missing or optional", key)
		}
		if got := field.Check("0"); got.OK {
			t.Fatalf("%s accepted zero", key)
		}
		if got := field.Check("abc"); got.OK {
			t.Fatalf("%s accepted non-numeric input", key)
		}
		if got := field.Check("3"); !got.OK {
			t.Fatalf("%s rejected a positive number: %+v", key, got)
		}
	}

	for _, tc := range []struct {
		key  string
		want any
	}{
		{"taxable", true},
		{"requiresShipping", true},
		{"hasVariants", false},
		{"fragile", false},
	} {
		field, ok := s.LineItemField(tc.key)
		if !ok || field.Kind != schema.KindBoolean {
			t.Fatalf("flag %s missing or wrong kind", tc.key)
		}
		if field.Default != tc.want {
			t.Fatalf("flag %s default = %v, want %v", tc.key, field.Default, tc.want)
		}
	}
}

func TestNewLineSchemaFoldsInCatalogMetafields(t *testing.T) {
	fragrance, ok := catalog.Default().Type("fragrance")
	if !ok {
		t.Fatal("fragrance type missing")
	}

	s := forms.NewLineSchema(&fragrance)

	field, ok := s.Field("metafield.fragrance_notes")
	if !ok || !field.Required {
		t.Fatalf("catalog metafield not folded in: %+v, %v", field, ok)
	}

	// The folded field participates in full validation like any other.
	state := formstate.New(s)
	var found bool
	for _, fieldErr := range state.ValidateAll() {
		if fieldErr.Key == "metafield.fragrance_notes" {
			found = true
		}
	}
	if !found {
		t.Fatal("folded metafield not reported by full validation")
	}
}
