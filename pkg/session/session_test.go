package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-intake/pkg/backend"
	"github.com/goliatone/go-intake/pkg/draft"
	"github.com/goliatone/go-intake/pkg/forms"
	"github.com/goliatone/go-intake/pkg/formstate"
	"github.com/goliatone/go-intake/pkg/session"
	"github.com/goliatone/go-intake/pkg/submission"
)

func newStore(t *testing.T) *draft.Store {
	t.Helper()
	return draft.NewStore(draft.NewMemoryKV())
}

// fill completes every required field of the new-line form.
func fill(t *testing.T, sess *session.Session) {
	t.Helper()
	for key, value := range map[string]any{
		"supplierName":       "Acme Botanicals",
		"supplierEmail":      "hello@acme.test",
		"brandName":          "Acme",
		"expectedLaunchDate": "2026-10-01",
		"productType":        "skincare",
		"termsAccepted":      true,
	} {
		require.NoError(t, sess.SetField(key, value))
	}

	id := sess.AddItem()
	for key, value := range map[string]any{
		"name":         "Night Serum",
		"unitCost":     "4.00",
		"sellingPrice": "10.00",
		"moq":          "50",
		"leadTimeDays": "14",
	} {
		require.NoError(t, sess.UpdateItemField(id, key, value))
	}
}

func TestSessionAutosavesEdits(t *testing.T) {
	store := newStore(t)
	sess := session.New(forms.NewLineSchema(nil),
		session.WithStore(store),
		session.WithDebounce(0),
	)

	require.NoError(t, sess.SetField("supplierName", "Acme Botanicals"))

	record, found := store.Load(context.Background(), forms.NewLineDraftSlot)
	require.True(t, found)
	require.Equal(t, forms.NewLineSchemaVersion, record.SchemaVersion)
	require.Equal(t, "Acme Botanicals", record.Values["supplierName"])
}

func TestSessionStartRestoresMatchingDraft(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(context.Background(), forms.NewLineDraftSlot, draft.Record{
		SchemaVersion: forms.NewLineSchemaVersion,
		Values:        map[string]any{"supplierName": "Acme Botanicals", "termsAccepted": true},
	}))

	sess := session.New(forms.NewLineSchema(nil), session.WithStore(store))
	require.Equal(t, session.DraftRestored, sess.Start(context.Background()))

	value, ok := sess.State().Value("supplierName")
	require.True(t, ok)
	require.Equal(t, "Acme Botanicals", value)
	require.Greater(t, sess.Completion().Completed, 0)
}

func TestSessionStartDiscardsStaleDraft(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(context.Background(), forms.NewLineDraftSlot, draft.Record{
		SchemaVersion: "2023-01",
		Values:        map[string]any{"supplierName": "Old Co"},
	}))

	sess := session.New(forms.NewLineSchema(nil), session.WithStore(store))
	require.Equal(t, session.DraftDiscarded, sess.Start(context.Background()))

	// The stale draft must not survive to shadow the next session either.
	_, found := store.Load(context.Background(), forms.NewLineDraftSlot)
	require.False(t, found)

	_, ok := sess.State().Value("supplierName")
	require.False(t, ok)
}

func TestSessionStartWithoutDraft(t *testing.T) {
	sess := session.New(forms.NewLineSchema(nil), session.WithStore(newStore(t)))
	require.Equal(t, session.DraftNone, sess.Start(context.Background()))
}

func TestSessionSubmitSuccess(t *testing.T) {
	store := newStore(t)
	client := backend.NewMockClient(nil)
	sess := session.New(forms.NewLineSchema(nil),
		session.WithStore(store),
		session.WithBackend(client),
		session.WithDebounce(0),
	)
	fill(t, sess)

	result, err := sess.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, submission.StatusSucceeded, result.Status)
	require.NotEmpty(t, result.SubmissionID)
	require.Len(t, client.Submissions, 1)

	// Success clears the draft, resets the form, and lands on the audit trail.
	_, found := store.Load(context.Background(), forms.NewLineDraftSlot)
	require.False(t, found)
	_, ok := sess.State().Value("supplierName")
	require.False(t, ok)
	require.Equal(t, []string{"intake_submission_created"}, client.AuditEvents)
}

func TestSessionSubmitValidationFailure(t *testing.T) {
	client := backend.NewMockClient(nil)
	sess := session.New(forms.NewLineSchema(nil), session.WithBackend(client))

	result, err := sess.Submit(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.FieldErrors)
	require.Empty(t, client.Submissions)
	require.Empty(t, client.AuditEvents)
}

func TestSessionRemoveLastItemRefused(t *testing.T) {
	sess := session.New(forms.NewLineSchema(nil))
	id := sess.AddItem()
	require.ErrorIs(t, sess.RemoveItem(id), formstate.ErrLastLineItem)
}

func TestSessionProductSubmitter(t *testing.T) {
	client := backend.NewMockClient(nil)
	sess := session.New(forms.ProductSchema(),
		session.WithBackend(client),
		session.WithSubmitter(session.ProductSubmitter(client)),
	)

	sku := forms.GenerateSKU("Rose Cream", time.Now())
	require.NoError(t, sess.SetField("title", "Rose Cream"))
	require.NoError(t, sess.SetField("sku", sku))
	require.NoError(t, sess.SetField("price", "19.99"))

	result, err := sess.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, submission.StatusSucceeded, result.Status)
	require.Len(t, client.Products, 1)
	require.Empty(t, client.Submissions)
}

func TestSessionDerivesSKUFromTitle(t *testing.T) {
	at := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	sess := session.New(forms.ProductSchema(),
		session.WithDeriver(forms.AutoSKU(func() time.Time { return at })),
	)

	require.NoError(t, sess.SetField("title", "Rose Cream"))
	value, ok := sess.State().Value("sku")
	require.True(t, ok)
	require.Equal(t, forms.GenerateSKU("Rose Cream", at), value)
	require.True(t, forms.ValidSKU(value.(string)))

	// The SKU keeps tracking the title until it is edited by hand.
	require.NoError(t, sess.SetField("title", "Night Serum"))
	value, _ = sess.State().Value("sku")
	require.Equal(t, forms.GenerateSKU("Night Serum", at), value)
}

func TestSessionManualSKUSurvivesTitleEdits(t *testing.T) {
	sess := session.New(forms.ProductSchema(),
		session.WithDeriver(forms.AutoSKU(nil)),
	)

	require.NoError(t, sess.SetField("sku", "CUSTOM-00001"))
	require.NoError(t, sess.SetField("title", "Rose Cream"))

	value, ok := sess.State().Value("sku")
	require.True(t, ok)
	require.Equal(t, "CUSTOM-00001", value)
}

func TestSessionRestoredSKUTreatedAsManual(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(context.Background(), forms.ProductDraftSlot, draft.Record{
		SchemaVersion: forms.ProductSchemaVersion,
		Values:        map[string]any{"title": "Rose Cream", "sku": "CUSTOM-00001"},
	}))

	sess := session.New(forms.ProductSchema(),
		session.WithStore(store),
		session.WithDeriver(forms.AutoSKU(nil)),
	)
	require.Equal(t, session.DraftRestored, sess.Start(context.Background()))

	// A SKU typed in an earlier session must not be regenerated.
	require.NoError(t, sess.SetField("title", "Night Serum"))
	value, _ := sess.State().Value("sku")
	require.Equal(t, "CUSTOM-00001", value)
}

func TestSessionSaveDraftRequiresStore(t *testing.T) {
	sess := session.New(forms.NewLineSchema(nil))
	require.Error(t, sess.SaveDraft(context.Background()))
}

func TestSessionCloseFlushesPendingDraft(t *testing.T) {
	store := newStore(t)
	sess := session.New(forms.NewLineSchema(nil),
		session.WithStore(store),
		session.WithDebounce(time.Hour),
	)
	require.NoError(t, sess.SetField("supplierName", "Acme Botanicals"))

	// Nothing written yet while the debounce timer is armed.
	_, found := store.Load(context.Background(), forms.NewLineDraftSlot)
	require.False(t, found)

	sess.Close()
	record, found := store.Load(context.Background(), forms.NewLineDraftSlot)
	require.True(t, found)
	require.Equal(t, "Acme Botanicals", record.Values["supplierName"])
}
