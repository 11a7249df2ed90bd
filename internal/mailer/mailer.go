package mailer

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a rendered outgoing mail.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
}

// Mailer delivers messages. Delivery is best-effort; failures are returned
// for the caller to log, never to roll back business writes.
type Mailer interface {
	Send(msg Message) error
}

// Console logs mail to stdout, for dev and tests.
type Console struct {
	From string

	mu   sync.Mutex
	Sent []Message
}

func NewConsole(from string) *Console {
	return &Console{From: from}
}

func (c *Console) Send(msg Message) error {
	c.mu.Lock()
	c.Sent = append(c.Sent, msg)
	c.mu.Unlock()
	log.Printf("mail to %s <%s>: %s\n%s", msg.ToName, msg.ToEmail, msg.Subject, msg.Body)
	return nil
}

// Sendgrid delivers mail through the SendGrid v3 API.
type Sendgrid struct {
	apiKey   string
	from     *sgmail.Email
	subjPref string
}

func NewSendgrid(apiKey, appName, fromEmail string) *Sendgrid {
	return &Sendgrid{
		apiKey:   apiKey,
		from:     sgmail.NewEmail(appName, fromEmail),
		subjPref: "[" + appName + "] ",
	}
}

func (s *Sendgrid) Send(msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	m := sgmail.NewSingleEmail(s.from, s.subjPref+msg.Subject, to, msg.Body, "")
	resp, err := sendgrid.NewSendClient(s.apiKey).Send(m)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
