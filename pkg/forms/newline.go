// Package forms defines the concrete intake form types: the supplier new-line
// form and the simpler product form, plus the payload sanitisation applied
// before submission.
package forms

import (
	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/schema"
)

// Slot keys used for draft persistence, one per form type.
const (
	NewLineDraftSlot = "new-line-form"
	ProductDraftSlot = "product-form"
)

// NewLineSchemaVersion is bumped whenever the new-line field set changes in a
// way stored drafts cannot survive.
const NewLineSchemaVersion = "2024-05"

// NewLineSchema builds the supplier new-line intake schema. When a product
// type is supplied, its required metafields are folded in as additional
// required fields, so completion tracking and submit validation cover them.
func NewLineSchema(productType *catalog.ProductType) schema.FormSchema {
	fields := []schema.FieldDescriptor{
		{
			Key:         "supplierName",
			Kind:        schema.KindText,
			Required:    true,
			Label:       "Supplier Name",
			Placeholder: "Enter supplier name",
			Validate:    schema.MinLength(2, "Supplier name must be at least 2 characters."),
		},
		{
			Key:         "supplierEmail",
			Kind:        schema.KindEmail,
			Required:    true,
			Label:       "Supplier Email",
			Placeholder: "supplier@example.com",
			Validate:    schema.Email("Enter a valid supplier email."),
		},
		{
			Key:         "brandName",
			Kind:        schema.KindText,
			Required:    true,
			Label:       "Brand Name",
			Placeholder: "Enter brand name",
			Validate:    schema.MinLength(2, "Brand name must be at least 2 characters."),
		},
		{
			Key:         "expectedLaunchDate",
			Kind:        schema.KindText,
			Required:    true,
			Label:       "Expected Launch Date",
			Placeholder: "DD/MM/YYYY",
			Validate:    schema.NonEmpty("Expected launch date is required."),
		},
		{
			Key:      "productType",
			Kind:     schema.KindEnumChoice,
			Required: true,
			Label:    "Product Type",
			Default:  "fragrance",
			Choices:  []string{"fragrance", "skincare", "makeup", "other"},
			Validate: schema.OneOf([]string{"fragrance", "skincare", "makeup", "other"}, "Choose a product type."),
		},
		{
			Key:      "website",
			Kind:     schema.KindURL,
			Label:    "Supplier Website",
			Validate: schema.Optional(schema.URL("Enter a valid URL.")),
		},
		{
			Key:   "notes",
			Kind:  schema.KindLongText,
			Label: "Notes",
		},
		{
			Key:      "termsAccepted",
			Kind:     schema.KindBoolean,
			Required: true,
			Label:    "Terms Accepted",
			Default:  false,
			Validate: schema.MustAccept("You must accept the supplier terms."),
		},
	}

	if productType != nil {
		fields = append(fields, productType.Descriptors()...)
	}

	return schema.FormSchema{
		ID:        NewLineDraftSlot,
		Version:   NewLineSchemaVersion,
		Fields:    fields,
		LineItems: newLineItemSchema(),
	}
}

// newLineItemSchema declares one supplier line item: identity and pricing
// fields plus the attribute flags the export sheet carries.
func newLineItemSchema() *schema.LineItemSchema {
	return &schema.LineItemSchema{
		MinItems: 1,
		Fields: []schema.FieldDescriptor{
			{
				Key:      "name",
				Kind:     schema.KindText,
				Required: true,
				Label:    "Product Name",
				Validate: schema.MinLength(2, "Name must be at least 2 characters."),
			},
			{
				Key:   "sku",
				Kind:  schema.KindText,
				Label: "SKU",
			},
			{
				Key:      "unitCost",
				Kind:     schema.KindNumber,
				Required: true,
				Label:    "Unit Cost",
				Validate: schema.PositiveNumber("Unit cost must be a number greater than zero."),
			},
			{
				Key:      "sellingPrice",
				Kind:     schema.KindNumber,
				Required: true,
				Label:    "Selling Price",
				Validate: schema.PositiveNumber("Selling price must be a number greater than zero."),
			},
			{
				Key:      "moq",
				Kind:     schema.KindNumber,
				Required: true,
				Label:    "Minimum Order Quantity",
				Validate: schema.PositiveNumber("MOQ must be a number greater than zero."),
			},
			{
				Key:      "leadTimeDays",
				Kind:     schema.KindNumber,
				Required: true,
				Label:    "Lead Time (days)",
				Validate: schema.PositiveNumber("Lead time must be a number greater than zero."),
			},
			{
				Key:   "category",
				Kind:  schema.KindText,
				Label: "Category",
			},
			{Key: "taxable", Kind: schema.KindBoolean, Label: "Taxable", Default: true},
			{Key: "requiresShipping", Kind: schema.KindBoolean, Label: "Requires Shipping", Default: true},
			{Key: "hasVariants", Kind: schema.KindBoolean, Label: "Has Variants", Default: false},
			{Key: "fragile", Kind: schema.KindBoolean, Label: "Fragile", Default: false},
		},
	}
}
