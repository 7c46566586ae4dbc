package comms_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-intake/pkg/backend"
	"github.com/goliatone/go-intake/pkg/comms"
	"github.com/goliatone/go-intake/pkg/forms"
	"github.com/goliatone/go-intake/pkg/formstate"
)

func submittedState(t *testing.T) formstate.FormState {
	t.Helper()
	state := formstate.New(forms.NewLineSchema(nil))

	var err error
	for key, value := range map[string]any{
		"supplierName":  "Acme Botanicals",
		"supplierEmail": "hello@acme.test",
		"brandName":     "Acme",
	} {
		state, err = state.SetField(key, value)
		require.NoError(t, err)
	}

	var id string
	state, id = state.AddItem()
	for key, value := range map[string]any{
		"name":         "Night Serum",
		"unitCost":     "4.00",
		"sellingPrice": "10.00",
	} {
		state, err = state.UpdateItemField(id, key, value)
		require.NoError(t, err)
	}
	return state
}

func TestSendNewLineInvite(t *testing.T) {
	client := backend.NewMockClient(nil)
	mailer, err := comms.NewMailer(client, comms.WithTeamName("Retail Ops"))
	require.NoError(t, err)

	err = mailer.SendNewLineInvite(context.Background(),
		"hello@acme.test", "Acme Botanicals", "https://intake.example.test/new-line", "")
	require.NoError(t, err)

	require.Len(t, client.Emails, 1)
	sent := client.Emails[0]
	require.Equal(t, "hello@acme.test", sent.To)
	require.Contains(t, sent.Body, "Acme Botanicals")
	require.Contains(t, sent.Body, "https://intake.example.test/new-line")
	require.Contains(t, sent.Body, "Retail Ops")
}

func TestSendSubmissionReceived(t *testing.T) {
	client := backend.NewMockClient(nil)
	mailer, err := comms.NewMailer(client)
	require.NoError(t, err)

	err = mailer.SendSubmissionReceived(context.Background(), submittedState(t), "sub-123")
	require.NoError(t, err)

	require.Len(t, client.Emails, 1)
	sent := client.Emails[0]
	require.Equal(t, "hello@acme.test", sent.To)
	require.Contains(t, sent.Body, "sub-123")
	require.Contains(t, sent.Body, "1 line item(s)")
}

func TestSendSubmissionReceivedRequiresEmail(t *testing.T) {
	client := backend.NewMockClient(nil)
	mailer, err := comms.NewMailer(client)
	require.NoError(t, err)

	state := formstate.New(forms.NewLineSchema(nil))
	require.Error(t, mailer.SendSubmissionReceived(context.Background(), state, "sub-123"))
	require.Empty(t, client.Emails)
}

func TestWriteLineItemsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, comms.WriteLineItemsCSV(&buf, submittedState(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	require.True(t, strings.HasPrefix(lines[0], "id,name,"))
	require.True(t, strings.HasSuffix(lines[0], ",margin"))
	require.Contains(t, lines[1], "Night Serum")
	require.Contains(t, lines[1], "4.00")
	// Derived margin for cost 4 / price 10.
	require.True(t, strings.HasSuffix(lines[1], ",60.00"))
}

func TestWriteLineItemsCSVRequiresLineItems(t *testing.T) {
	var buf bytes.Buffer
	state := formstate.New(forms.ProductSchema())
	require.Error(t, comms.WriteLineItemsCSV(&buf, state))
}

func TestUploadLineItemSheet(t *testing.T) {
	client := backend.NewMockClient(nil)
	url, err := comms.UploadLineItemSheet(context.Background(), client, submittedState(t), "acme-line-items.csv")
	require.NoError(t, err)
	require.Contains(t, url, "acme-line-items.csv")
	require.Equal(t, []string{"acme-line-items.csv"}, client.Uploads)
}
