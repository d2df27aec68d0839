package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/maglieria/storefront/internal/domain"
)

// SMTPConfig is the outbound mail relay configuration.
type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	Timeout      time.Duration
	ResetLinkTTL time.Duration
	RequireTLS   bool
}

// SMTPNotifier sends customer emails through an SMTP relay.
type SMTPNotifier struct {
	cfg    SMTPConfig
	client *gomail.Client
}

func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp sender address is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	tlsPolicy := gomail.TLSOpportunistic
	if cfg.RequireTLS {
		tlsPolicy = gomail.TLSMandatory
	}
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(cfg.Timeout),
		gomail.WithTLSPolicy(tlsPolicy),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}
	return &SMTPNotifier{cfg: cfg, client: client}, nil
}

func (n *SMTPNotifier) SendOrderConfirmation(ctx context.Context, order domain.Order, receiptPDF []byte) error {
	msg, err := n.newMessage(order.Shipping.Email, fmt.Sprintf("Conferma Ordine #%d", order.ID))
	if err != nil {
		return err
	}
	if err := msg.SetBodyHTMLTemplate(orderConfirmationTemplate, order); err != nil {
		return fmt.Errorf("render order confirmation: %w", err)
	}
	if len(receiptPDF) > 0 {
		msg.AttachReadSeeker(
			fmt.Sprintf("ricevuta-ordine-%d.pdf", order.ID),
			bytes.NewReader(receiptPDF),
			gomail.WithFileContentType(gomail.ContentType("application/pdf")),
		)
	}
	return n.client.DialAndSendWithContext(ctx, msg)
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	msg, err := n.newMessage(email, "Reimposta la tua password")
	if err != nil {
		return err
	}
	data := struct {
		Link     string
		ValidFor string
	}{Link: resetLink, ValidFor: humanDuration(n.cfg.ResetLinkTTL)}
	if err := msg.SetBodyHTMLTemplate(passwordResetTemplate, data); err != nil {
		return fmt.Errorf("render password reset: %w", err)
	}
	return n.client.DialAndSendWithContext(ctx, msg)
}

func (n *SMTPNotifier) newMessage(to, subject string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	return msg, nil
}

func humanDuration(d time.Duration) string {
	if d <= 0 {
		d = time.Hour
	}
	if d%time.Hour == 0 {
		if d == time.Hour {
			return "1 ora"
		}
		return fmt.Sprintf("%d ore", int(d/time.Hour))
	}
	return fmt.Sprintf("%d minuti", int(d/time.Minute))
}
