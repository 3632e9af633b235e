package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/utils"
)

const plainEmail = "From: \"PayPal Support\" <alerts@secure-pay.top>\r\n" +
	"To: victim@example.com\r\n" +
	"Subject: Action required\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Verify your account at https://bit.ly/abc before it is suspended.\r\n"

const multipartEmail = "From: sender@example.com\r\n" +
	"To: victim@example.com\r\n" +
	"Subject: Invoice\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n" +
	"\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Please see the attached invoice.\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: application/octet-stream\r\n" +
	"Content-Disposition: attachment; filename=\"invoice.pdf.exe\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"aGVsbG8gd29ybGQ=\r\n" +
	"--BOUNDARY--\r\n"

func newTestProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(zap.NewNop())
}

func TestBuildPayloadPlainText(t *testing.T) {
	payload, err := BuildPayload([]byte(plainEmail), "envelope@example.com", newTestProcessor())
	require.NoError(t, err)

	assert.Equal(t, "alerts@secure-pay.top", payload.SenderEmail)
	assert.Equal(t, "PayPal Support", payload.SenderName)
	assert.Equal(t, "Action required", payload.Subject)
	assert.Contains(t, payload.BodyText, "Verify your account")
	assert.Contains(t, payload.URLs, "https://bit.ly/abc")
	assert.Empty(t, payload.Attachments)
}

func TestBuildPayloadFallsBackToEnvelopeSender(t *testing.T) {
	raw := "Subject: No from header\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Hello.\r\n"

	payload, err := BuildPayload([]byte(raw), "bounce@example.com", newTestProcessor())
	require.NoError(t, err)

	assert.Equal(t, "bounce@example.com", payload.SenderEmail)
	assert.Equal(t, "", payload.SenderName)
}

func TestBuildPayloadAttachments(t *testing.T) {
	payload, err := BuildPayload([]byte(multipartEmail), "", newTestProcessor())
	require.NoError(t, err)

	require.Len(t, payload.Attachments, 1)
	att := payload.Attachments[0]
	assert.Equal(t, "invoice.pdf.exe", att.Filename)
	assert.Equal(t, "exe", att.Extension)
	assert.Greater(t, att.SizeKB, 0.0)
	assert.Contains(t, payload.BodyText, "attached invoice")
}
