package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender mails the requester the outcome of an out-of-hours
// login request, as a fallback for employees with no live connection.
type ResendEmailSender struct {
	client *resend.Client
	from   string
}

// NewResendEmailSender returns nil when no API key is configured; the
// service treats a nil sender as "email disabled".
func NewResendEmailSender(apiKey string, from string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil
	}
	return &ResendEmailSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendEmailSender) SendLoginRequestResult(ctx context.Context, email string, status string, expiresAt *time.Time) error {
	subject := fmt.Sprintf("Your login request was %s", status)
	text := fmt.Sprintf("Your out-of-hours login request was %s.", status)
	if expiresAt != nil {
		text = fmt.Sprintf("%s You may log in until %s.", text, expiresAt.Format(time.RFC1123))
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{email},
		Subject: subject,
		Html:    fmt.Sprintf("<p>%s</p>", text),
		Text:    text,
	}
	_, err := s.client.Emails.Send(params)
	return err
}
