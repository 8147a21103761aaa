package email_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMR-Works/toolshub/pkg/email"
)

func TestContactMessage_Validate(t *testing.T) {
	t.Parallel()

	valid := email.ContactMessage{
		Name:    "Jamie",
		Email:   "jamie@example.com",
		Reason:  "Billing question",
		Message: "My invoice looks wrong.",
	}

	t.Run("accepts a complete submission", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("rejects blank or invalid fields", func(t *testing.T) {
		t.Parallel()

		cases := map[string]email.ContactMessage{
			"missing name":    {Email: valid.Email, Reason: valid.Reason, Message: valid.Message},
			"missing email":   {Name: valid.Name, Reason: valid.Reason, Message: valid.Message},
			"bad email":       {Name: valid.Name, Email: "not-an-email", Reason: valid.Reason, Message: valid.Message},
			"missing reason":  {Name: valid.Name, Email: valid.Email, Message: valid.Message},
			"missing message": {Name: valid.Name, Email: valid.Email, Reason: valid.Reason},
			"whitespace only": {Name: "  ", Email: valid.Email, Reason: valid.Reason, Message: valid.Message},
		}

		for name, msg := range cases {
			assert.ErrorIs(t, msg.Validate(), email.ErrInvalidParams, name)
		}
	})
}

func TestContactMessage_Render(t *testing.T) {
	t.Parallel()

	msg := email.ContactMessage{
		Name:    "Jamie <admin>",
		Email:   "jamie@example.com",
		Reason:  "Feedback",
		Message: `<b>bold</b> claim`,
	}

	params := msg.Render("support@example.com")

	assert.Equal(t, "support@example.com", params.SendTo)
	assert.Equal(t, "Contact form: Feedback", params.Subject)
	assert.Equal(t, "contact-form", params.Tag)
	assert.NoError(t, params.Validate())

	assert.NotContains(t, params.BodyHTML, "<b>bold</b>")
	assert.Contains(t, params.BodyHTML, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, params.BodyHTML, "Jamie &lt;admin&gt;")
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "u@example.com",
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
	}
	assert.NoError(t, valid.Validate())

	invalid := []email.SendEmailParams{
		{Subject: "Hello", BodyHTML: "<p>Hi</p>"},
		{SendTo: "nope", Subject: "Hello", BodyHTML: "<p>Hi</p>"},
		{SendTo: "u@example.com", BodyHTML: "<p>Hi</p>"},
		{SendTo: "u@example.com", Subject: "Hello"},
	}
	for i, params := range invalid {
		assert.ErrorIs(t, params.Validate(), email.ErrInvalidParams, "case %d", i)
	}
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "u@example.com",
		Subject:  "Welcome aboard",
		BodyHTML: "<p>Hello</p>",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", string(data))
	assert.Contains(t, entries[0].Name(), "Welcome_aboard")
}
