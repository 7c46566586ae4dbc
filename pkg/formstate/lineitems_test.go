package formstate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/goliatone/go-intake/pkg/formstate"
)

func TestAddItemGeneratesStableIDs(t *testing.T) {
	state := formstate.New(testSchema())

	state, first := state.AddItem()
	state, second := state.AddItem()

	if first == "" || second == "" || first == second {
		t.Fatalf("ids not unique: %q, %q", first, second)
	}

	items := state.Items()
	if len(items) != 2 || items[0].ID != first || items[1].ID != second {
		t.Fatalf("items out of order: %+v", items)
	}
}

func TestRemoveItemRefusesLastItem(t *testing.T) {
	state := formstate.New(testSchema())
	state, id := state.AddItem()

	_, err := state.RemoveItem(id)
	if !errors.Is(err, formstate.ErrLastLineItem) {
		t.Fatalf("err = %v, want ErrLastLineItem", err)
	}
	if len(state.Items()) != 1 {
		t.Fatal("collection size changed after refused removal")
	}
}

func TestRemoveItemByID(t *testing.T) {
	state := formstate.New(testSchema())
	state, first := state.AddItem()
	state, second := state.AddItem()
	state, _ = state.UpdateItemField(second, "name", "Night Serum")

	state, err := state.RemoveItem(first)
	if err != nil {
		t.Fatal(err)
	}

	items := state.Items()
	if len(items) != 1 || items[0].ID != second {
		t.Fatalf("items = %+v, want only %s", items, second)
	}
	// Removal of a sibling must not disturb the survivor's state.
	if value, _ := items[0].Value("name"); value != "Night Serum" {
		t.Fatalf("survivor lost its value: %v", value)
	}
	if outcome, ok := items[0].OutcomeFor("name"); !ok || !outcome.OK {
		t.Fatalf("survivor lost its validation outcome: %+v, %v", outcome, ok)
	}
}

func TestRemoveUnknownItem(t *testing.T) {
	state := formstate.New(testSchema())
	state, _ = state.AddItem()
	if _, err := state.RemoveItem("missing"); err == nil {
		t.Fatal("unknown id accepted")
	}
}

func TestUpdateItemFieldIsIndependentPerItem(t *testing.T) {
	state := formstate.New(testSchema())
	state, first := state.AddItem()
	state, second := state.AddItem()

	state, err := state.UpdateItemField(first, "unitCost", "-1")
	if err != nil {
		t.Fatal(err)
	}

	items := state.Items()
	if outcome, ok := items[0].OutcomeFor("unitCost"); !ok || outcome.OK {
		t.Fatalf("first item outcome = %+v, %v; want invalid", outcome, ok)
	}
	if _, ok := items[1].OutcomeFor("unitCost"); ok {
		t.Fatalf("sibling %s gained an outcome", second)
	}
}

func TestUpdateItemFieldRejectsUnknownKey(t *testing.T) {
	state := formstate.New(testSchema())
	state, id := state.AddItem()
	if _, err := state.UpdateItemField(id, "nope", 1); err != nil {
		return
	}
	t.Fatal("unknown line item field accepted")
}

func TestMarginDerivedFromCostAndPrice(t *testing.T) {
	state := formstate.New(testSchema())
	state, id := state.AddItem()

	state, _ = state.UpdateItemField(id, "unitCost", "4.00")
	if _, ok := state.Items()[0].Value("margin"); ok {
		t.Fatal("margin derived without selling price")
	}

	state, _ = state.UpdateItemField(id, "sellingPrice", "10.00")
	margin, ok := state.Items()[0].Value("margin")
	if !ok {
		t.Fatal("margin not derived")
	}
	if got := margin.(float64); math.Abs(got-60) > 1e-9 {
		t.Fatalf("margin = %v, want 60", got)
	}

	// Clearing the price removes the derived value again.
	state, _ = state.UpdateItemField(id, "sellingPrice", "")
	if _, ok := state.Items()[0].Value("margin"); ok {
		t.Fatal("stale margin survived price removal")
	}
}
