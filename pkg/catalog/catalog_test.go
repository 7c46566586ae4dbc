package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-intake/pkg/catalog"
)

func TestDefaultCatalogTypes(t *testing.T) {
	store := catalog.Default()

	want := []string{"fragrance", "makeup", "other", "skincare"}
	if diff := cmp.Diff(want, store.TypeIDs()); diff != "" {
		t.Fatalf("type ids mismatch (-want +got):\n%s", diff)
	}
}

func TestFragranceRequirements(t *testing.T) {
	store := catalog.Default()
	fragrance, ok := store.Type("fragrance")
	if !ok {
		t.Fatal("fragrance type missing")
	}

	var required []string
	for _, m := range fragrance.RequiredMetafields() {
		required = append(required, m.Key)
	}
	want := []string{"ingredients", "usage_instructions", "benefits", "fragrance_notes"}
	if diff := cmp.Diff(want, required, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("required metafields mismatch (-want +got):\n%s", diff)
	}

	variants := fragrance.VariantMetafields()
	if len(variants) != 1 || variants[0].Key != "size" {
		t.Fatalf("variant metafields = %+v", variants)
	}

	if !fragrance.Rules.RequireApproval || fragrance.Rules.MinImages != 5 {
		t.Fatalf("rules = %+v", fragrance.Rules)
	}
}

func TestDescriptorsAreRequiredAndNamespaced(t *testing.T) {
	store := catalog.Default()
	skincare, _ := store.Type("skincare")

	for _, field := range skincare.Descriptors() {
		if !field.Required {
			t.Fatalf("descriptor %s not required", field.Key)
		}
		if field.Key[:10] != "metafield." {
			t.Fatalf("descriptor key %s not namespaced", field.Key)
		}
		if outcome := field.Check(""); outcome.OK {
			t.Fatalf("descriptor %s accepts blank values", field.Key)
		}
		if outcome := field.Check("present"); !outcome.OK {
			t.Fatalf("descriptor %s rejects a present value: %+v", field.Key, outcome)
		}
	}
}

func TestLoadFSRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		fsys fstest.MapFS
	}{
		{
			name: "missing id",
			fsys: fstest.MapFS{
				"bad.yaml": &fstest.MapFile{Data: []byte("label: Broken\n")},
			},
		},
		{
			name: "duplicate id",
			fsys: fstest.MapFS{
				"a.yaml": &fstest.MapFile{Data: []byte("id: dupe\nlabel: A\n")},
				"b.yaml": &fstest.MapFile{Data: []byte("id: dupe\nlabel: B\n")},
			},
		},
		{
			name: "invalid yaml",
			fsys: fstest.MapFS{
				"bad.yaml": &fstest.MapFile{Data: []byte("id: [broken\n")},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := catalog.LoadFS(tc.fsys); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadFSIgnoresNonYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"readme.md": &fstest.MapFile{Data: []byte("# not a catalog file")},
		"one.yaml":  &fstest.MapFile{Data: []byte("id: one\nlabel: One\n")},
	}
	store, err := catalog.LoadFS(fsys)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Type("one"); !ok {
		t.Fatal("yaml definition not loaded")
	}
	if len(store.TypeIDs()) != 1 {
		t.Fatalf("unexpected types: %v", store.TypeIDs())
	}
}
