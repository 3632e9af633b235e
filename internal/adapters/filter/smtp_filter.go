package filter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/core"
	"github.com/phishguard/phish-guard/internal/utils"
)

// SMTPFilter implements an SMTP content filter that scores inbound mail,
// injects risk headers, and re-injects the message into the upstream MTA
type SMTPFilter struct {
	service         *core.RiskService
	textProcessor   *utils.TextProcessor
	logger          *zap.Logger
	listenAddr      string
	server          *smtp.Server
	blockHighRisk   bool
	scoreHeader     string
	levelHeader     string
	reasonHeader    string
	upstreamAddr    string
	upstreamPort    int
	upstreamEnabled bool
	subjectPrefix   string
	modifySubject   bool
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(
	service *core.RiskService,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	listenAddr string,
	blockHighRisk bool,
	scoreHeader string,
	levelHeader string,
	reasonHeader string,
	upstreamAddr string,
	upstreamPort int,
	upstreamEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *SMTPFilter {
	// If subject prefix is not set but modify subject is enabled, use default prefix
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[**PHISHING**] "
	}

	return &SMTPFilter{
		service:         service,
		textProcessor:   textProcessor,
		logger:          logger,
		listenAddr:      listenAddr,
		blockHighRisk:   blockHighRisk,
		scoreHeader:     scoreHeader,
		levelHeader:     levelHeader,
		reasonHeader:    reasonHeader,
		upstreamAddr:    upstreamAddr,
		upstreamPort:    upstreamPort,
		upstreamEnabled: upstreamEnabled,
		subjectPrefix:   subjectPrefix,
		modifySubject:   modifySubject,
	}
}

// Start starts the SMTP filter service
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP filter service
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail scores a payload directly. This is mainly used for testing
// or direct API calls.
func (f *SMTPFilter) ProcessEmail(ctx context.Context, payload *core.EmailPayload) *core.RiskVerdict {
	return f.service.ScoreEmail(ctx, payload)
}

// sendUpstream re-injects the processed email into the upstream MTA using go-smtp
func (f *SMTPFilter) sendUpstream(sender string, recipients []string, emailData []byte) error {
	upstreamAddr := fmt.Sprintf("%s:%d", f.upstreamAddr, f.upstreamPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", upstreamAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to upstream MTA: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			// Continue with other recipients even if one fails
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
		// Not returning an error here as the email has already been sent
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for our filter)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data handles the email data
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	// Parsed copy for header reconstruction
	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.filter.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	payload, err := BuildPayload(rawData, s.sender, s.filter.textProcessor)
	if err != nil {
		s.filter.logger.Error("Failed to extract payload", zap.Error(err))
		return err
	}

	senderDomain := "unknown"
	if parts := strings.Split(payload.SenderEmail, "@"); len(parts) == 2 {
		senderDomain = parts[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	verdict := s.filter.service.ScoreEmail(ctx, payload)
	isHigh := verdict.RiskLevel == core.RiskHigh

	if isHigh && s.filter.blockHighRisk {
		s.filter.logger.Info("Rejecting high-risk email",
			zap.String("from", payload.SenderEmail),
			zap.String("sender_domain", senderDomain),
			zap.Float64("risk_score", verdict.RiskScore),
			zap.Strings("reasons", verdict.Reasons))
		return fmt.Errorf("550 Rejected as phishing (score: %.2f)", verdict.RiskScore)
	}

	// Prepend risk headers to the message
	var modifiedEmail bytes.Buffer
	fmt.Fprintf(&modifiedEmail, "%s: %.2f\r\n", s.filter.scoreHeader, verdict.RiskScore)
	fmt.Fprintf(&modifiedEmail, "%s: %s\r\n", s.filter.levelHeader, verdict.RiskLevel)
	fmt.Fprintf(&modifiedEmail, "%s: %s\r\n", s.filter.reasonHeader, strings.Join(verdict.Reasons, "; "))

	if isHigh && s.filter.modifySubject && s.filter.subjectPrefix != "" {
		originalSubject := msg.Header.Get("Subject")
		decodedSubject, err := decodeEncodedHeader(originalSubject)
		if err != nil {
			decodedSubject = originalSubject
		}

		if !strings.HasPrefix(decodedSubject, s.filter.subjectPrefix) {
			fmt.Fprintf(&modifiedEmail, "Subject: %s%s\r\n", s.filter.subjectPrefix, decodedSubject)
			writeHeaders(&modifiedEmail, msg.Header, "Subject")
		} else {
			writeHeaders(&modifiedEmail, msg.Header, "")
		}
	} else {
		writeHeaders(&modifiedEmail, msg.Header, "")
	}

	// End of headers
	fmt.Fprintf(&modifiedEmail, "\r\n")

	// Preserve the original body bytes (MIME parts and attachments intact)
	modifiedEmail.Write(originalBody(rawData, msg))

	if s.filter.upstreamEnabled {
		if err := s.filter.sendUpstream(s.sender, s.recipients, modifiedEmail.Bytes()); err != nil {
			s.filter.logger.Error("Failed to send email to upstream MTA",
				zap.Error(err),
				zap.String("sender", payload.SenderEmail))
			return err
		}
	} else {
		s.filter.logger.Warn("Upstream forwarding disabled, this is likely a misconfiguration")
	}

	s.filter.logger.Info("Processed email",
		zap.String("from", payload.SenderEmail),
		zap.String("sender_domain", senderDomain),
		zap.Float64("risk_score", verdict.RiskScore),
		zap.String("risk_level", string(verdict.RiskLevel)),
		zap.String("text_mode", string(verdict.TextMode)))

	return nil
}

// Logout handles SMTP logout (not needed for our filter)
func (s *smtpSession) Logout() error {
	return nil
}

// writeHeaders writes all message headers except the named one
func writeHeaders(buf *bytes.Buffer, header mail.Header, skip string) {
	for key, values := range header {
		if skip != "" && strings.EqualFold(key, skip) {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(buf, "%s: %s\r\n", key, value)
		}
	}
}

// originalBody returns the raw body bytes following the header separator
func originalBody(rawData []byte, msg *mail.Message) []byte {
	if idx := bytes.Index(rawData, []byte("\r\n\r\n")); idx != -1 {
		return rawData[idx+4:]
	}
	if idx := bytes.Index(rawData, []byte("\n\n")); idx != -1 {
		return rawData[idx+2:]
	}
	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		return nil
	}
	return bodyBytes
}

// decodeEncodedHeader decodes RFC 2047 encoded-word headers
func decodeEncodedHeader(value string) (string, error) {
	decoder := new(mime.WordDecoder)
	return decoder.DecodeHeader(value)
}
