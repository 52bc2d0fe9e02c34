package providers

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	date := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)

	msg := string(BuildMessage("a@example.com", "b@example.com", "Digest", "<p>hi</p>", "hi", "b0undary", date))

	assert.True(t, strings.HasPrefix(msg, "From: a@example.com\r\nTo: b@example.com\r\nSubject: Digest\r\n"))
	assert.Contains(t, msg, "Date: Mon, 02 Jun 2025 07:00:00 +0000\r\n")
	assert.Contains(t, msg, `boundary="b0undary"`)
	assert.Less(t, strings.Index(msg, "text/plain"), strings.Index(msg, "text/html"))
	assert.True(t, strings.HasSuffix(msg, "--b0undary--\r\n"))
}

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 2525, "", "", "from@example.com")

	var gotAddr string
	var gotTo []string
	var gotAuth smtp.Auth
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotAuth = addr, to, a
		return nil
	}

	require.NoError(t, s.Send("to@example.com", "s", "h", "p"))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, []string{"to@example.com"}, gotTo)
	assert.Nil(t, gotAuth)

	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
	assert.ErrorContains(t, s.Send("to@example.com", "s", "h", "p"), "refused")
}
