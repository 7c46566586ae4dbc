package intake_test

import (
	"testing"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/pkg/forms"
)

func TestNewLineSessionFoldsCatalogType(t *testing.T) {
	sess, err := intake.NewLineSession("fragrance")
	if err != nil {
		t.Fatalf("NewLineSession: %v", err)
	}

	s := sess.State().Schema()
	if s.ID != forms.NewLineDraftSlot {
		t.Fatalf("schema id = %q", s.ID)
	}
	if _, ok := s.Field("metafield.fragrance_notes"); !ok {
		t.Fatal("fragrance metafields not folded into the schema")
	}
}

func TestNewLineSessionUnknownType(t *testing.T) {
	if _, err := intake.NewLineSession("electronics"); err == nil {
		t.Fatal("unknown product type accepted")
	}
}

func TestProductSessionIdentity(t *testing.T) {
	sess := intake.ProductSession()
	if got := sess.State().Schema().ID; got != forms.ProductDraftSlot {
		t.Fatalf("schema id = %q", got)
	}
}
