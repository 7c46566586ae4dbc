// Package backend declares the contracts the intake core consumes from the
// data platform. Everything here is an asynchronous request/response boundary;
// the core never depends on platform internals, only on these shapes.
package backend

import (
	"context"
	"io"
	"time"
)

// SubmissionResult is the platform's acknowledgement of a supplier intake
// submission.
type SubmissionResult struct {
	ID string `json:"id"`
}

// ProductResult acknowledges a simple product create.
type ProductResult struct {
	ID  string `json:"id"`
	SKU string `json:"sku"`
}

// SyncState enumerates catalog sync phases reported by the platform.
type SyncState string

const (
	SyncIdle       SyncState = "idle"
	SyncInProgress SyncState = "in-progress"
	SyncCompleted  SyncState = "completed"
	SyncFailed     SyncState = "failed"
)

// SyncStatus is the platform's catalog sync progress report.
type SyncStatus struct {
	Status         SyncState `json:"status"`
	Progress       int       `json:"progress"`
	LastSync       time.Time `json:"lastSync"`
	SyncedProducts int       `json:"syncedProducts"`
	TotalProducts  int       `json:"totalProducts"`
	Error          string    `json:"error,omitempty"`
}

// Client is the platform surface the intake flows call. Submit-path calls are
// at-most-once from the caller's perspective; retry policy belongs to the
// platform, not to this interface.
type Client interface {
	// CreateSupplierSubmission files a completed new-line form.
	CreateSupplierSubmission(ctx context.Context, payload map[string]any) (SubmissionResult, error)

	// CreateProduct files the simpler single-product form variant.
	CreateProduct(ctx context.Context, payload map[string]any) (ProductResult, error)

	// SyncStatus reports current catalog sync progress.
	SyncStatus(ctx context.Context) (SyncStatus, error)

	// SendEmail dispatches supplier communication through the platform.
	SendEmail(ctx context.Context, to, subject, body string) error

	// UploadFile stores a generated artefact (for example the exported
	// line-item sheet) and returns its URL.
	UploadFile(ctx context.Context, name string, contents io.Reader) (string, error)

	// LogAuditEvent records an audit trail entry; failures are advisory.
	LogAuditEvent(ctx context.Context, event, actor string, details map[string]any) error
}
