// Package mailer sends outbound mail through the owning company's
// configured SMTP channel, falling back to the system sender when a
// company has none. Delivery is plain net/smtp with a short retry.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"

	"go-hrms/internal/company"
	"go-hrms/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxRetries = 3

var ErrChannelUnavailable = apperror.New(
	apperror.CodeChannelUnavailable,
	"mail channel unavailable",
	503,
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Service interface {
	Send(ctx context.Context, companyID string, to []string, subject, body string) error
}

type service struct {
	companyRepo   company.Repository
	defaultSender string
	logger        *zap.Logger

	// sendMail is swappable in tests.
	sendMail func(addr string, a smtp.Auth, useTLS bool, from string, to []string, msg []byte) error
}

// deliver hands the message to the server. Channels flagged for TLS
// get an implicit TLS session; otherwise net/smtp negotiates STARTTLS
// when the server offers it.
func deliver(addr string, a smtp.Auth, useTLS bool, from string, to []string, msg []byte) error {
	if !useTLS {
		return smtp.SendMail(addr, a, from, to, msg)
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if a != nil {
		if err := client.Auth(a); err != nil {
			return err
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func NewService(companyRepo company.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mailer")
	}
	sender := os.Getenv("MAIL_DEFAULT_SENDER")
	if sender == "" {
		sender = "noreply@hrms.local"
	}
	return &service{
		companyRepo:   companyRepo,
		defaultSender: sender,
		logger:        l,
		sendMail:      deliver,
	}
}

// Send delivers one message to all recipients. The company's SMTP
// settings are looked up per call so settings changes apply without a
// restart.
func (s *service) Send(ctx context.Context, companyID string, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	comp, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(err, apperror.CodeChannelUnavailable, "company lookup failed", 503)
	}

	from := s.defaultSender
	var (
		host   string
		port   int
		auth   smtp.Auth
		useTLS bool
	)
	if comp != nil && comp.SMTPHost != "" && comp.SMTPUsername != "" {
		host = comp.SMTPHost
		port = comp.SMTPPort
		from = comp.SMTPUsername
		auth = smtp.PlainAuth("", comp.SMTPUsername, comp.SMTPPassword, comp.SMTPHost)
		useTLS = comp.SMTPUseTLS
	} else {
		host = os.Getenv("MAIL_SMTP_HOST")
		port = 587
		if host == "" {
			s.logger.Warn("no mail channel configured, dropping message",
				zap.String("company_id", companyID),
				zap.String("subject", subject))
			return ErrChannelUnavailable
		}
		user := os.Getenv("MAIL_SMTP_USERNAME")
		if user != "" {
			auth = smtp.PlainAuth("", user, os.Getenv("MAIL_SMTP_PASSWORD"), host)
		}
	}

	msg := buildMessage(from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", host, port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.sendMail(addr, auth, useTLS, from, to, msg)
		if err == nil {
			s.logger.Info("mail sent",
				zap.String("company_id", companyID),
				zap.String("subject", subject),
				zap.Int("recipients", len(to)),
				zap.Int("attempt", attempt))
			return nil
		}
		lastErr = err
		s.logger.Warn("mail send attempt failed",
			zap.String("subject", subject),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}
	return apperror.Wrap(lastErr, apperror.CodeChannelUnavailable, "mail delivery failed", 503)
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
