package comms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/backend"
	"github.com/goliatone/go-intake/pkg/formstate"
)

// Mailer renders supplier emails and dispatches them through the platform.
type Mailer struct {
	engine *Engine
	client backend.Client
	logger *zap.Logger
	team   string
}

// MailerOption configures a Mailer.
type MailerOption func(*Mailer)

// WithEngine overrides the default embedded template engine.
func WithEngine(engine *Engine) MailerOption {
	return func(m *Mailer) {
		if engine != nil {
			m.engine = engine
		}
	}
}

// WithLogger attaches a structured logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) MailerOption {
	return func(m *Mailer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTeamName sets the signature used at the bottom of every message.
func WithTeamName(name string) MailerOption {
	return func(m *Mailer) {
		if name != "" {
			m.team = name
		}
	}
}

// NewMailer builds a Mailer over the platform client.
func NewMailer(client backend.Client, options ...MailerOption) (*Mailer, error) {
	mailer := &Mailer{
		client: client,
		logger: zap.NewNop(),
		team:   "The Buying Team",
	}
	for _, opt := range options {
		if opt != nil {
			opt(mailer)
		}
	}
	if mailer.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		mailer.engine = engine
	}
	return mailer, nil
}

// SendNewLineInvite emails a supplier the link to the intake form.
func (m *Mailer) SendNewLineInvite(ctx context.Context, to, supplierName, formURL, note string) error {
	body, err := m.engine.Render("new_line_invite", map[string]any{
		"supplierName": supplierName,
		"formURL":      formURL,
		"note":         note,
		"teamName":     m.team,
	})
	if err != nil {
		return err
	}
	if err := m.client.SendEmail(ctx, to, "Tell us about your new line", body); err != nil {
		return fmt.Errorf("comms: send invite to %q: %w", to, err)
	}
	m.logger.Info("new line invite sent", zap.String("to", to))
	return nil
}

// SendSubmissionReceived confirms a filed submission back to the supplier.
// Supplier name, address, and brand come out of the submitted form state.
func (m *Mailer) SendSubmissionReceived(ctx context.Context, state formstate.FormState, submissionID string) error {
	to := stringValue(state, "supplierEmail")
	if to == "" {
		return fmt.Errorf("comms: submission %q has no supplier email", submissionID)
	}

	body, err := m.engine.Render("submission_received", map[string]any{
		"supplierName": stringValue(state, "supplierName"),
		"brandName":    stringValue(state, "brandName"),
		"submissionId": submissionID,
		"itemCount":    len(state.Items()),
		"teamName":     m.team,
	})
	if err != nil {
		return err
	}
	if err := m.client.SendEmail(ctx, to, "We received your submission", body); err != nil {
		return fmt.Errorf("comms: send confirmation to %q: %w", to, err)
	}
	m.logger.Info("submission confirmation sent",
		zap.String("to", to),
		zap.String("submissionId", submissionID),
	)
	return nil
}

func stringValue(state formstate.FormState, key string) string {
	value, ok := state.Value(key)
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return text
}
