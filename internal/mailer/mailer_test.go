package mailer

import (
	"context"
	"database/sql"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-hrms/internal/company"
)

type fakeCompanyRepo struct {
	comp *company.Company
}

func (f *fakeCompanyRepo) WithTx(tx *sql.Tx) company.Repository { return f }
func (f *fakeCompanyRepo) FindByID(ctx context.Context, id string) (*company.Company, error) {
	if f.comp == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.comp, nil
}
func (f *fakeCompanyRepo) Update(ctx context.Context, c *company.Company) error { return nil }
func (f *fakeCompanyRepo) CreateHoliday(ctx context.Context, h *company.PublicHoliday) error {
	return nil
}
func (f *fakeCompanyRepo) FindHolidaysByMonth(ctx context.Context, companyID string, year int, month time.Month) ([]company.PublicHoliday, error) {
	return nil, nil
}

func TestService_Send_UsesCompanyChannel(t *testing.T) {
	repo := &fakeCompanyRepo{comp: &company.Company{
		ID:           uuid.New(),
		SMTPHost:     "mail.acme.test",
		SMTPPort:     2525,
		SMTPUsername: "hr@acme.test",
		SMTPPassword: "secret",
		SMTPUseTLS:   true,
	}}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotTLS bool
	svc := NewService(repo).(*service)
	svc.sendMail = func(addr string, a smtp.Auth, useTLS bool, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg, gotTLS = addr, from, to, msg, useTLS
		return nil
	}

	err := svc.Send(context.Background(), uuid.New().String(), []string{"sam@acme.test"}, "Leave Request: jordan", "User: jordan")
	assert.NoError(t, err)
	assert.Equal(t, "mail.acme.test:2525", gotAddr)
	assert.Equal(t, "hr@acme.test", gotFrom)
	assert.True(t, gotTLS)
	assert.Equal(t, []string{"sam@acme.test"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Leave Request: jordan")
	assert.Contains(t, string(gotMsg), "User: jordan")
}

func TestService_Send_FallsBackToSystemChannel(t *testing.T) {
	t.Setenv("MAIL_SMTP_HOST", "relay.internal")
	t.Setenv("MAIL_SMTP_USERNAME", "")

	var gotAddr string
	var gotTLS bool
	svc := NewService(&fakeCompanyRepo{}).(*service)
	svc.sendMail = func(addr string, a smtp.Auth, useTLS bool, from string, to []string, msg []byte) error {
		gotAddr, gotTLS = addr, useTLS
		return nil
	}

	err := svc.Send(context.Background(), uuid.New().String(), []string{"sam@acme.test"}, "hello", "body")
	assert.NoError(t, err)
	assert.Equal(t, "relay.internal:587", gotAddr)
	assert.False(t, gotTLS)
}

func TestService_Send_NoChannel(t *testing.T) {
	t.Setenv("MAIL_SMTP_HOST", "")

	svc := NewService(&fakeCompanyRepo{}).(*service)
	svc.sendMail = func(addr string, a smtp.Auth, useTLS bool, from string, to []string, msg []byte) error {
		t.Fatal("sendMail called with no channel configured")
		return nil
	}

	err := svc.Send(context.Background(), uuid.New().String(), []string{"sam@acme.test"}, "hello", "body")
	assert.ErrorIs(t, err, ErrChannelUnavailable)
}

func TestService_Send_RetriesThenSucceeds(t *testing.T) {
	repo := &fakeCompanyRepo{comp: &company.Company{
		SMTPHost:     "mail.acme.test",
		SMTPPort:     587,
		SMTPUsername: "hr@acme.test",
	}}

	calls := 0
	svc := NewService(repo).(*service)
	svc.sendMail = func(addr string, a smtp.Auth, useTLS bool, from string, to []string, msg []byte) error {
		calls++
		if calls == 1 {
			return errors.New("connection reset")
		}
		return nil
	}

	err := svc.Send(context.Background(), uuid.New().String(), []string{"sam@acme.test"}, "hello", "body")
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestService_Send_NoRecipients(t *testing.T) {
	svc := NewService(&fakeCompanyRepo{}).(*service)
	svc.sendMail = func(addr string, a smtp.Auth, useTLS bool, from string, to []string, msg []byte) error {
		t.Fatal("sendMail called with no recipients")
		return nil
	}
	assert.NoError(t, svc.Send(context.Background(), uuid.New().String(), nil, "hello", "body"))
}
