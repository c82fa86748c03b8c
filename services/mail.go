package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"net/http"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Message is an HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the transport named in the settings. SMTP without a
// username yields a mailer that always fails, so contact forms report a
// delivery error instead of silently succeeding.
func NewMailer(settings config.Settings) Mailer {
	if settings.MailTransport == config.MailTransportResend {
		return NewResendMailer(settings.ResendAPIKey, settings.ResendFromEmail)
	}
	if settings.MailUsername == "" {
		log.Warn().Msg("MAIL_USERNAME not set, contact notifications are disabled")
		return discardMailer{}
	}
	return NewSMTPMailer(settings.MailServer, settings.MailPort, settings.MailUsername, settings.MailPassword)
}

func checkMessage(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if strings.ContainsAny(msg.Subject, "\r\n") || strings.ContainsAny(msg.ReplyTo, "\r\n") {
		return fmt.Errorf("header values must not contain line breaks")
	}
	return nil
}

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey:   apiKey,
		from:     from,
		endpoint: "https://api.resend.com/emails",
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if err := checkMessage(msg); err != nil {
		return err
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer authenticates with PLAIN and upgrades with STARTTLS when the
// server offers it.
type SMTPMailer struct {
	host     string
	addr     string
	username string
	password string
	sendMail sendMailFunc
	now      func() time.Time
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		addr:     host + ":" + strconv.Itoa(port),
		username: username,
		password: password,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := checkMessage(msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := buildMIME(m.username, msg, m.now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := m.sendMail(m.addr, auth, m.username, msg.To, raw); err != nil {
		return fmt.Errorf("smtp send via %s: %w", m.addr, err)
	}
	log.Info().Strs("to", msg.To).Msg("Successfully sent email via SMTP")
	return nil
}

// buildMIME renders a single-part HTML message with a quoted-printable body.
func buildMIME(from string, msg Message, at time.Time) ([]byte, error) {
	var buf bytes.Buffer
	header := func(key, value string) {
		buf.WriteString(key + ": " + value + "\r\n")
	}

	header("From", (&mail.Address{Address: from}).String())
	to := make([]string, len(msg.To))
	for i, addr := range msg.To {
		to[i] = (&mail.Address{Address: addr}).String()
	}
	header("To", strings.Join(to, ", "))
	if msg.ReplyTo != "" {
		header("Reply-To", (&mail.Address{Address: msg.ReplyTo}).String())
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", at.Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@honoriel>")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// discardMailer drops messages; used when no transport is configured.
type discardMailer struct{}

var errMailDisabled = errors.New("mail transport not configured")

func (discardMailer) Send(context.Context, Message) error { return errMailDisabled }
