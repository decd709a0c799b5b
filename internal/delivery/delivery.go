package delivery

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dvasyliev/cv-responder/internal/hunter"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const bodyTemplate = `Dear %s,

I hope this message finds you well. I am very interested in the %s position at %s and believe my background and skills could be a strong fit for your team.

I would greatly appreciate the opportunity to contribute and grow within your organization.

Please find my resume attached for your review.

Best regards,
%s`

// Renderer produces the PDF attachment bytes for a tailored resume.
type Renderer interface {
	RenderPDF(ctx context.Context, markdown string) ([]byte, error)
}

// Job is a single application delivery: one listing, one recipient.
type Job struct {
	Title     string
	Company   string
	Markdown  string
	Recipient *hunter.Candidate
}

// Config holds the SMTP submission settings.
type Config struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	// Signature closes the cover message body.
	Signature string
}

// Mailer renders a tailored resume to PDF and submits it over authenticated
// SMTP with mandatory STARTTLS.
type Mailer struct {
	cfg      Config
	renderer Renderer
	logger   *zap.Logger
	client   *mail.Client
}

func NewMailer(cfg Config, renderer Renderer, logger *zap.Logger) (*Mailer, error) {
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &Mailer{
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
		client:   client,
	}, nil
}

// Deliver renders the tailored markdown to a temporary PDF, composes the
// application message, and sends it. The temporary file is removed on every
// exit path. A render failure aborts this recipient's delivery without retry.
func (m *Mailer) Deliver(ctx context.Context, job *Job) error {
	pdf, err := m.renderer.RenderPDF(ctx, job.Markdown)
	if err != nil {
		return fmt.Errorf("rendering resume for %s: %w", job.Company, err)
	}

	tmp, err := os.CreateTemp("", "resume_*.pdf")
	if err != nil {
		return err
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(pdf); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	msg, err := m.compose(job, path)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending application to %s: %w", job.Recipient.Email, err)
	}

	m.logger.Info("resume sent",
		zap.String("recipient", job.Recipient.Email),
		zap.String("company", job.Company),
		zap.String("title", job.Title),
	)

	return nil
}

func (m *Mailer) compose(job *Job, attachmentPath string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(job.Recipient.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(Subject(job.Title, job.Company))
	msg.SetBodyString(mail.TypeTextPlain, Body(job.Recipient.FullName(), job.Title, job.Company, m.cfg.Signature))
	msg.AttachFile(attachmentPath, mail.WithFileName(AttachmentFilename(job.Company)))

	return msg, nil
}

// Subject builds the fixed-format subject line.
func Subject(title, company string) string {
	return fmt.Sprintf("Application for %s at %s", title, company)
}

// Body fills the fixed cover message template.
func Body(fullName, title, company, signature string) string {
	return fmt.Sprintf(bodyTemplate, fullName, title, company, signature)
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\s-]`)

// AttachmentFilename derives the attachment name from the company name:
// characters outside word chars, whitespace, and hyphens are stripped, then
// spaces become underscores.
func AttachmentFilename(company string) string {
	safe := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(company, ""))
	safe = strings.ReplaceAll(safe, " ", "_")
	return fmt.Sprintf("Resume_%s.pdf", safe)
}
