package comms

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/goliatone/go-intake/pkg/backend"
	"github.com/goliatone/go-intake/pkg/formstate"
)

// WriteLineItemsCSV exports the form's line items as a CSV sheet. Columns
// follow the line-item schema's declared field order, with the derived margin
// appended last.
func WriteLineItemsCSV(w io.Writer, state formstate.FormState) error {
	itemSchema := state.Schema().LineItems
	if itemSchema == nil {
		return fmt.Errorf("comms: form %q has no line items", state.Schema().ID)
	}

	out := csv.NewWriter(w)

	header := make([]string, 0, len(itemSchema.Fields)+2)
	header = append(header, "id")
	for _, field := range itemSchema.Fields {
		header = append(header, field.Key)
	}
	header = append(header, "margin")
	if err := out.Write(header); err != nil {
		return fmt.Errorf("comms: write csv header: %w", err)
	}

	for _, item := range state.Items() {
		row := make([]string, 0, len(header))
		row = append(row, item.ID)
		for _, field := range itemSchema.Fields {
			row = append(row, cell(item, field.Key))
		}
		row = append(row, cell(item, "margin"))
		if err := out.Write(row); err != nil {
			return fmt.Errorf("comms: write csv row: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}

// UploadLineItemSheet exports the line items and stores the sheet through the
// platform, returning the uploaded file's URL.
func UploadLineItemSheet(ctx context.Context, client backend.Client, state formstate.FormState, name string) (string, error) {
	var buf bytes.Buffer
	if err := WriteLineItemsCSV(&buf, state); err != nil {
		return "", err
	}
	url, err := client.UploadFile(ctx, name, &buf)
	if err != nil {
		return "", fmt.Errorf("comms: upload sheet %q: %w", name, err)
	}
	return url, nil
}

func cell(item formstate.LineItem, key string) string {
	value, ok := item.Value(key)
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		if typed {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%.2f", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
