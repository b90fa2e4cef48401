package auth

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
)

// MailMode selects the delivery transport for a message.
type MailMode string

const (
	// MailModeSMTP delivers through an SMTP relay.
	MailModeSMTP MailMode = "smtp"
	// MailModeConsole writes the message to the process log.
	MailModeConsole MailMode = "console"
)

// Message is a rendered email ready for dispatch.
type Message struct {
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Mode    MailMode `json:"mode"`
	To      string   `json:"to"`
}

// Mailer dispatches rendered messages. Transport implementations live
// outside this package; ConsoleMailer is the built-in stand-in.
type Mailer interface {
	SendHTML(ctx context.Context, msg Message) error
}

// TemplateRenderer produces an HTML body from a named template and a
// variable binding.
type TemplateRenderer interface {
	Render(name string, binding map[string]any) (string, error)
}

// Template names the flows render by default.
const (
	TemplateEmailVerification = "email/email-verification"
	TemplatePasswordReset     = "email/password-reset"
)

// Renderer renders django templates from a directory.
type Renderer struct {
	engine *django.Engine
}

var _ TemplateRenderer = (*Renderer)(nil)

// NewRenderer loads every template under dir with the given extension,
// e.g. NewRenderer("./templates", ".html").
func NewRenderer(dir, ext string) (*Renderer, error) {
	engine := django.New(dir, ext)
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load email templates")
	}
	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Render(name string, binding map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, binding); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render email template").
			WithMetadata(map[string]any{"template": name})
	}
	return buf.String(), nil
}

// ConsoleMailer prints messages instead of delivering them. Useful for
// development and as the default until a real transport is wired.
type ConsoleMailer struct {
	logger Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(logger Logger) *ConsoleMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) SendHTML(_ context.Context, msg Message) error {
	m.logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	m.logger.Info(fmt.Sprintf("to: %s", msg.To))
	m.logger.Info(fmt.Sprintf("subject: %s", msg.Subject))
	m.logger.Info(fmt.Sprintf("mode: %s", msg.Mode))
	m.logger.Info(msg.HTML)
	return nil
}

// literalRenderer backs the flows when no template directory is
// configured; it produces a minimal body carrying the code.
type literalRenderer struct{}

var _ TemplateRenderer = (*literalRenderer)(nil)

func (literalRenderer) Render(name string, binding map[string]any) (string, error) {
	code, _ := binding["code"].(string)
	switch name {
	case TemplatePasswordReset:
		return fmt.Sprintf("<p>Your password reset code is <strong>%s</strong>.</p>", code), nil
	default:
		return fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p>", code), nil
	}
}
