package email

import (
	"fmt"
	"html"
	"strings"
)

// ContactMessage is a contact-form submission forwarded to the support inbox.
type ContactMessage struct {
	Name    string
	Email   string
	Reason  string
	Message string
}

// Validate checks that all contact-form fields are present.
func (m ContactMessage) Validate() error {
	switch {
	case strings.TrimSpace(m.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidParams)
	case strings.TrimSpace(m.Email) == "" || !emailRegex.MatchString(m.Email):
		return fmt.Errorf("%w: email must be a valid email address", ErrInvalidParams)
	case strings.TrimSpace(m.Reason) == "":
		return fmt.Errorf("%w: reason is required", ErrInvalidParams)
	case strings.TrimSpace(m.Message) == "":
		return fmt.Errorf("%w: message is required", ErrInvalidParams)
	}
	return nil
}

// Render produces the notification email delivered to the support inbox.
// User-provided values are HTML-escaped.
func (m ContactMessage) Render(supportEmail string) SendEmailParams {
	var b strings.Builder
	b.WriteString("<h2>New contact form submission</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(m.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(m.Email))
	fmt.Fprintf(&b, "<p><strong>Reason:</strong> %s</p>", html.EscapeString(m.Reason))
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(m.Message))

	return SendEmailParams{
		SendTo:   supportEmail,
		Subject:  fmt.Sprintf("Contact form: %s", m.Reason),
		BodyHTML: b.String(),
		Tag:      "contact-form",
	}
}
