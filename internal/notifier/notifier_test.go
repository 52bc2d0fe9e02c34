package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/digest"
)

type fakeSender struct {
	to, subject, html, plain string
	calls                    int
}

func (f *fakeSender) Send(to, subject, htmlBody, plainBody string) error {
	f.to, f.subject, f.html, f.plain = to, subject, htmlBody, plainBody
	f.calls++
	return nil
}

func TestSendDigest(t *testing.T) {
	fs := &fakeSender{}
	n := New(fs)

	d := &digest.Digest{Subject: "s", HTMLBody: "<p>h</p>", PlainBody: "h", Companies: []string{"Acme"}}
	require.NoError(t, n.SendDigest(d, "vc@example.com"))

	assert.Equal(t, 1, fs.calls)
	assert.Equal(t, "vc@example.com", fs.to)
	assert.Equal(t, "s", fs.subject)
	assert.Equal(t, "<p>h</p>", fs.html)

	assert.Error(t, n.SendDigest(d, ""))
	assert.Equal(t, 1, fs.calls)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default().Email

	_, err := NewFromConfig(cfg)
	assert.Error(t, err, "host required")

	cfg.SMTPHost = "smtp.example.com"
	n, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, n)

	cfg.Provider = "sendgrid"
	_, err = NewFromConfig(cfg)
	assert.Error(t, err)
}
