package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridMailer sends messages through the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

var _ Mailer = (*SendgridMailer)(nil)

// NewSendgridMailer creates a SendgridMailer sending as fromName <fromEmail>.
func NewSendgridMailer(apiKey, fromName, fromEmail string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)

	resp, err := m.client.SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
