package backend_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-intake/pkg/backend"
)

func TestMockClientRecordsCalls(t *testing.T) {
	ctx := context.Background()
	client := backend.NewMockClient(nil)

	sub, err := client.CreateSupplierSubmission(ctx, map[string]any{"supplierName": "Acme"})
	require.NoError(t, err)
	require.NotEmpty(t, sub.ID)
	require.Len(t, client.Submissions, 1)

	product, err := client.CreateProduct(ctx, map[string]any{"sku": "ROSE-CREAM-00001"})
	require.NoError(t, err)
	require.Equal(t, "ROSE-CREAM-00001", product.SKU)

	url, err := client.UploadFile(ctx, "sheet.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	require.Contains(t, url, "sheet.csv")

	require.NoError(t, client.LogAuditEvent(ctx, "intake_submission_created", "intake", nil))
	require.Equal(t, []string{"intake_submission_created"}, client.AuditEvents)
}

func TestMockClientPrimedFailure(t *testing.T) {
	client := backend.NewMockClient(nil)
	client.Err = errors.New("backend down")

	_, err := client.CreateSupplierSubmission(context.Background(), nil)
	require.Error(t, err)
	require.Empty(t, client.Submissions)
}

func TestStubOptimizerEchoesContent(t *testing.T) {
	result, err := backend.StubOptimizer{}.Optimize(context.Background(), backend.OptimizeRequest{
		Kind:    backend.OptimizeTitle,
		Content: "Night Serum",
	})
	require.NoError(t, err)
	require.Equal(t, "Night Serum", result.Optimized)
	require.Equal(t, "Night Serum", result.Original)
}
