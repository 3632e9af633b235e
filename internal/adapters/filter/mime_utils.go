package filter

import (
	"bytes"
	"fmt"
	"net/mail"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"

	"github.com/phishguard/phish-guard/internal/core"
	"github.com/phishguard/phish-guard/internal/utils"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// BuildPayload parses a raw RFC 5322 message into an EmailPayload ready for
// scoring. The envelope sender is used when the From header is missing or
// unparsable. URL deduplication is left to the scoring service.
func BuildPayload(raw []byte, envelopeSender string, tp *utils.TextProcessor) (*core.EmailPayload, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	senderEmail := envelopeSender
	senderName := ""
	if from := env.GetHeader("From"); from != "" {
		if addr, err := mail.ParseAddress(from); err == nil {
			senderEmail = addr.Address
			senderName = addr.Name
		}
	}

	bodyText := env.Text
	if strings.TrimSpace(bodyText) == "" {
		bodyText = env.HTML
	}
	bodyText = tp.SanitizeUTF8(bodyText)

	urls := urlPattern.FindAllString(env.Text+"\n"+env.HTML, -1)

	attachments := make([]core.Attachment, 0, len(env.Attachments))
	for _, part := range env.Attachments {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(part.FileName)), ".")
		attachments = append(attachments, core.Attachment{
			Filename:  part.FileName,
			Extension: ext,
			SizeKB:    float64(len(part.Content)) / 1024.0,
			MIMEType:  part.ContentType,
		})
	}

	return &core.EmailPayload{
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Subject:     env.GetHeader("Subject"),
		BodyText:    bodyText,
		URLs:        urls,
		Attachments: attachments,
	}, nil
}
