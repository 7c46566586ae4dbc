// Package catalog holds the metafield requirements and validation-rule
// settings per product type. The bundled definitions mirror what the data
// platform serves; LoadFS accepts any filesystem so deployments can override
// them.
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Metafield is one platform metafield requirement for a product type.
type Metafield struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
	Variant     bool   `yaml:"variant,omitempty"`
}

// Rules are the per-type validation settings an intake manager can tune.
type Rules struct {
	MinImages          int  `yaml:"minImages"`
	RequireIngredients bool `yaml:"requireIngredients"`
	RequireBarcode     bool `yaml:"requireBarcode"`
	RequireMetafields  bool `yaml:"requireMetafields"`
	AutoReminders      bool `yaml:"autoReminders"`
	RequireApproval    bool `yaml:"requireApproval"`
}

// ProductType bundles everything the intake form needs to know about one
// product line category.
type ProductType struct {
	ID         string      `yaml:"id"`
	Label      string      `yaml:"label"`
	Suggestion string      `yaml:"suggestion,omitempty"`
	Metafields []Metafield `yaml:"metafields,omitempty"`
	Rules      Rules       `yaml:"rules"`
}

// RequiredMetafields returns the type's required, non-variant metafields.
func (t ProductType) RequiredMetafields() []Metafield {
	return t.filter(func(m Metafield) bool { return m.Required && !m.Variant })
}

// OptionalMetafields returns the type's optional, non-variant metafields.
func (t ProductType) OptionalMetafields() []Metafield {
	return t.filter(func(m Metafield) bool { return !m.Required && !m.Variant })
}

// VariantMetafields returns the metafields that define product variants.
func (t ProductType) VariantMetafields() []Metafield {
	return t.filter(func(m Metafield) bool { return m.Variant })
}

func (t ProductType) filter(keep func(Metafield) bool) []Metafield {
	var out []Metafield
	for _, m := range t.Metafields {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Descriptors converts the type's required metafields into extra form field
// descriptors so the new-line schema can fold them in. Keys are namespaced
// under "metafield." to keep them clear of the core form fields.
func (t ProductType) Descriptors() []schema.FieldDescriptor {
	var out []schema.FieldDescriptor
	for _, m := range t.RequiredMetafields() {
		out = append(out, schema.FieldDescriptor{
			Key:         "metafield." + m.Key,
			Kind:        schema.KindText,
			Required:    true,
			Label:       m.Name,
			Description: m.Description,
			Validate:    schema.NonEmpty(m.Name + " is required"),
		})
	}
	return out
}

// Store indexes product types by id.
type Store struct {
	types map[string]ProductType
}

// LoadFS walks the filesystem and parses every YAML product-type definition.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{types: make(map[string]ProductType)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		var pt ProductType
		if err := yaml.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("catalog: parse %s: %w", path, err)
		}

		id := strings.TrimSpace(pt.ID)
		if id == "" {
			return fmt.Errorf("catalog: file %s defines an empty product type id", path)
		}
		if _, exists := store.types[id]; exists {
			return fmt.Errorf("catalog: duplicate product type %q (file %s)", id, path)
		}
		store.types[id] = pt
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Default loads the embedded catalog. It panics only on a broken bundle,
// which the embed directive rules out in practice.
func Default() *Store {
	store, err := LoadFS(EmbeddedFS())
	if err != nil {
		panic(err)
	}
	return store
}

// Type returns the product type for id.
func (s *Store) Type(id string) (ProductType, bool) {
	if s == nil {
		return ProductType{}, false
	}
	pt, ok := s.types[id]
	return pt, ok
}

// TypeIDs lists the known product type ids, sorted.
func (s *Store) TypeIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.types))
	for id := range s.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
