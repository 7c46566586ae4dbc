package forms

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/formstate"
	"github.com/goliatone/go-intake/pkg/schema"
)

// ProductSchemaVersion gates draft restore for the product form.
const ProductSchemaVersion = "2024-05"

var (
	skuShape      = regexp.MustCompile(`^[A-Z0-9-]{5,25}$`)
	skuCleanup    = regexp.MustCompile(`[^A-Z0-9\s-]+`)
	skuWhitespace = regexp.MustCompile(`\s+`)
	skuHyphenRuns = regexp.MustCompile(`-+`)
)

// ProductSchema builds the simpler single-product form variant.
func ProductSchema() schema.FormSchema {
	return schema.FormSchema{
		ID:      ProductDraftSlot,
		Version: ProductSchemaVersion,
		Fields: []schema.FieldDescriptor{
			{
				Key:         "title",
				Kind:        schema.KindText,
				Required:    true,
				Label:       "Product Title",
				Placeholder: "Enter product title",
				Validate:    schema.MinLength(2, "Product title must be at least 2 characters."),
			},
			{
				Key:         "sku",
				Kind:        schema.KindText,
				Required:    true,
				Label:       "SKU",
				Placeholder: "Enter SKU",
				Description: "Auto-generated SEO-friendly SKU. Edit manually if needed.",
				Validate:    schema.NonEmpty("SKU is required."),
			},
			{
				Key:         "price",
				Kind:        schema.KindNumber,
				Required:    true,
				Label:       "Price",
				Placeholder: "0.00",
				Validate:    schema.PositiveNumber("Price must be a number greater than zero."),
			},
			{
				Key:         "description",
				Kind:        schema.KindLongText,
				Label:       "Description",
				Placeholder: "Enter product description",
			},
			{Key: "taxable", Kind: schema.KindBoolean, Label: "Taxable", Default: true},
			{Key: "requiresShipping", Kind: schema.KindBoolean, Label: "Requires Shipping", Default: true},
			{Key: "hasVariants", Kind: schema.KindBoolean, Label: "Has Variants", Default: false},
		},
	}
}

// GenerateSKU derives an SEO-friendly SKU from a product title: uppercase,
// hyphenated, special characters stripped, a 15-character stem plus a
// 5-digit time-based suffix for uniqueness.
func GenerateSKU(title string, now time.Time) string {
	clean := strings.ToUpper(strings.TrimSpace(title))
	clean = skuCleanup.ReplaceAllString(clean, "")
	clean = skuWhitespace.ReplaceAllString(clean, "-")
	clean = skuHyphenRuns.ReplaceAllString(clean, "-")
	clean = strings.Trim(clean, "-")

	if len(clean) > 15 {
		clean = clean[:15]
		clean = strings.TrimRight(clean, "-")
	}

	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	if len(stamp) > 5 {
		stamp = stamp[len(stamp)-5:]
	}
	if clean == "" {
		return stamp
	}
	return clean + "-" + stamp
}

// ValidSKU reports whether a SKU matches the catalog's accepted shape.
func ValidSKU(sku string) bool {
	return skuShape.MatchString(sku)
}

// AutoSKU returns a derived-field rule that fills the sku field from the
// product title as the supplier types. Wire it with session.WithDeriver; the
// session stops applying it once the SKU has been edited by hand.
func AutoSKU(clock func() time.Time) func(string, formstate.FormState) map[string]any {
	if clock == nil {
		clock = time.Now
	}
	return func(editedKey string, state formstate.FormState) map[string]any {
		if editedKey != "title" {
			return nil
		}
		value, _ := state.Value("title")
		title, _ := value.(string)
		if strings.TrimSpace(title) == "" {
			return nil
		}
		return map[string]any{"sku": GenerateSKU(title, clock())}
	}
}
