package backend

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockClient is the stand-in platform client used until the real backend is
// wired. It returns canned data, records what it was asked to do, and can be
// primed to fail so error paths are testable.
type MockClient struct {
	mu sync.Mutex

	logger *zap.Logger

	// Err, when set, is returned by every mutating call.
	Err error

	Submissions []map[string]any
	Products    []map[string]any
	Emails      []SentEmail
	Uploads     []string
	AuditEvents []string
}

// SentEmail captures one SendEmail call for assertions.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// NewMockClient returns an empty mock. Pass nil to use a no-op logger.
func NewMockClient(logger *zap.Logger) *MockClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockClient{logger: logger}
}

// CreateSupplierSubmission records the payload and returns a generated id.
func (m *MockClient) CreateSupplierSubmission(ctx context.Context, payload map[string]any) (SubmissionResult, error) {
	if err := ctx.Err(); err != nil {
		return SubmissionResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return SubmissionResult{}, m.Err
	}
	m.Submissions = append(m.Submissions, payload)
	id := uuid.NewString()
	m.logger.Debug("mock submission accepted", zap.String("id", id))
	return SubmissionResult{ID: id}, nil
}

// CreateProduct records the payload and returns a generated id and echo SKU.
func (m *MockClient) CreateProduct(ctx context.Context, payload map[string]any) (ProductResult, error) {
	if err := ctx.Err(); err != nil {
		return ProductResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return ProductResult{}, m.Err
	}
	m.Products = append(m.Products, payload)
	sku, _ := payload["sku"].(string)
	return ProductResult{ID: uuid.NewString(), SKU: sku}, nil
}

// SyncStatus reports an idle catalog.
func (m *MockClient) SyncStatus(ctx context.Context) (SyncStatus, error) {
	if err := ctx.Err(); err != nil {
		return SyncStatus{}, err
	}
	return SyncStatus{Status: SyncIdle, LastSync: time.Now().UTC()}, nil
}

// SendEmail records the message.
func (m *MockClient) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Emails = append(m.Emails, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// UploadFile drains the reader and returns a deterministic-looking URL.
func (m *MockClient) UploadFile(ctx context.Context, name string, contents io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if _, err := io.Copy(io.Discard, contents); err != nil {
		return "", fmt.Errorf("backend: read upload %q: %w", name, err)
	}
	m.Uploads = append(m.Uploads, name)
	return "https://storage.example.test/files/" + name, nil
}

// LogAuditEvent records the event name.
func (m *MockClient) LogAuditEvent(ctx context.Context, event, actor string, details map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuditEvents = append(m.AuditEvents, event)
	m.logger.Debug("mock audit event", zap.String("event", event), zap.String("actor", actor))
	return nil
}

var _ Client = (*MockClient)(nil)
