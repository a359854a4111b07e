package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"gardenlore/internal/config"
	"gardenlore/pkg/circuitbreaker"
	"gardenlore/pkg/metrics"

	"go.uber.org/zap"
)

// SMTPMailer sends mail through a plain SMTP relay, guarded by a circuit
// breaker so a down relay fails fast instead of stalling the whole batch.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	start := time.Now()

	err := m.breaker.Execute(func() error {
		return m.send(msg)
	})

	if err != nil {
		metrics.RecordMailSendDuration("failed", time.Since(start))
		m.logger.Error("Failed to send mail",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return err
	}

	metrics.RecordMailSendDuration("success", time.Since(start))
	m.logger.Info("Mail sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

func (m *SMTPMailer) send(msg Message) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", msg.To, err)
	}
	return nil
}
