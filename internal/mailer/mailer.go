// Package mailer delivers transactional email to applicants.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/model"
)

// Message is a single plain-text and HTML email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends one message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them. Used when
// no SendGrid key is configured.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "log_mailer").Logger()}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Msg("Email not sent (no provider configured)")
	return nil
}

// AdmissionReceived builds the confirmation sent after an application is stored.
func AdmissionReceived(a model.Admission, collegeName string) Message {
	ref := strings.ToUpper(a.ID.String()[:8])
	subject := fmt.Sprintf("%s: application %s received", collegeName, ref)

	text := fmt.Sprintf(
		"Dear %s,\n\nWe have received your %s application (reference %s) on %s.\n"+
			"Our admissions office will review it and contact you at this address.\n\n%s Admissions",
		a.ApplicantName, a.CourseType, ref, a.SubmittedAt.Format("2 January 2006"), collegeName)

	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>We have received your <strong>%s</strong> application "+
			"(reference <code>%s</code>) on %s.</p>"+
			"<p>Our admissions office will review it and contact you at this address.</p><p>%s Admissions</p>",
		escape(a.ApplicantName), a.CourseType, ref, a.SubmittedAt.Format("2 January 2006"), escape(collegeName))

	return Message{
		ToName:  a.ApplicantName,
		ToEmail: a.Email,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")

func escape(s string) string { return htmlEscaper.Replace(s) }
