package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridNotifier emails guardians through the SendGrid v3 API.
type SendgridNotifier struct {
	key  string
	host string
	from *sgmail.Email
}

// NewSendgridNotifier constructs an email notifier.
func NewSendgridNotifier(apiKey, fromName, fromAddress string) *SendgridNotifier {
	return &SendgridNotifier{
		key:  apiKey,
		host: sendgridHost,
		from: sgmail.NewEmail(fromName, fromAddress),
	}
}

// Notify implements Notifier.
func (n *SendgridNotifier) Notify(ctx context.Context, alert AbsenceAlert) error {
	if alert.GuardianEmail == "" {
		return fmt.Errorf("guardian email missing for student %s", alert.StudentID)
	}
	req := sendgrid.GetRequest(n.key, sendgridEndpoint, n.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(n.prepare(alert))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("send absence email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send absence email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (n *SendgridNotifier) prepare(alert AbsenceAlert) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = alert.Subject()
	p.AddTos(sgmail.NewEmail(alert.GuardianName, alert.GuardianEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(n.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", alert.Body()))
	return m
}
