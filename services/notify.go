package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	CompanyContactInvalidMessage = "Todos os campos, exceto CPF/CNPJ e Telefone, são obrigatórios."
	GeneralContactInvalidMessage = "Nome, e-mail e mensagem são campos obrigatórios."
)

// CompanyContact is the "Para Empresas" form.
type CompanyContact struct {
	Name     string `validate:"required,max=150"`
	Company  string `validate:"required,max=150"`
	Document string `validate:"max=30"`
	Email    string `validate:"required,max=150"`
	Phone    string `validate:"max=30"`
	Message  string `validate:"required,max=5000"`
}

// GeneralContact is the "Fale Conosco" form.
type GeneralContact struct {
	Name    string `validate:"required,max=150"`
	Email   string `validate:"required,max=150"`
	Phone   string `validate:"max=30"`
	Subject string `validate:"max=200"`
	Message string `validate:"required,max=5000"`
}

var emailTemplates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") },
}).Parse(`
{{define "company"}}<h2>Novo contato recebido pelo site (Para Empresas)</h2>
<p><strong>Nome do Contato:</strong> {{.Name}}</p>
<p><strong>Empresa:</strong> {{.Company}}</p>
<p><strong>CPF/CNPJ:</strong> {{or .Document "Não informado"}}</p>
<p><strong>E-mail:</strong> {{.Email}}</p>
<p><strong>Telefone:</strong> {{or .Phone "Não informado"}}</p>
<hr>
<p><strong>Mensagem:</strong></p>
<p>{{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>{{end}}
{{define "general"}}<h2>Nova mensagem recebida pelo site (Fale Conosco)</h2>
<p><strong>Nome:</strong> {{.Name}}</p>
<p><strong>E-mail:</strong> {{.Email}}</p>
<p><strong>Telefone:</strong> {{or .Phone "Não informado"}}</p>
<p><strong>Assunto:</strong> {{or .Subject "Não informado"}}</p>
<hr>
<p><strong>Mensagem:</strong></p>
<p>{{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>{{end}}
`))

type NotifierOption func(*Notifier)

// WithSMS sends a short copy of every notification to a phone number.
func WithSMS(sender SMSSender, to string) NotifierOption {
	return func(n *Notifier) {
		n.sms = sender
		n.smsTo = to
	}
}

// Notifier delivers contact forms to the company mailbox.
type Notifier struct {
	mailer    Mailer
	recipient string
	sms       SMSSender
	smsTo     string
	logger    zerolog.Logger
}

func NewNotifier(mailer Mailer, recipient string, opts ...NotifierOption) Notifier {
	n := Notifier{
		mailer:    mailer,
		recipient: recipient,
		logger:    log.With().Str("serviceName", "notifier").Logger(),
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

func (n Notifier) NotifyCompanyContact(ctx context.Context, c CompanyContact) error {
	c = CompanyContact{
		Name:     strings.TrimSpace(c.Name),
		Company:  strings.TrimSpace(c.Company),
		Document: strings.TrimSpace(c.Document),
		Email:    strings.TrimSpace(c.Email),
		Phone:    strings.TrimSpace(c.Phone),
		Message:  strings.TrimSpace(c.Message),
	}
	if err := ValidateStruct(c); err != nil {
		return errs.NewValidationError("contact", CompanyContactInvalidMessage)
	}

	html, err := renderEmail("company", c)
	if err != nil {
		return errs.NewInternalErrorWithCause("render company contact email", err)
	}
	msg := Message{
		To:      []string{n.recipient},
		Subject: singleLine("Novo Contato de Empresa: " + c.Company),
		HTML:    html,
		ReplyTo: singleLine(c.Email),
	}
	return n.deliver(ctx, msg, fmt.Sprintf("Contato de empresa: %s (%s) - %s", c.Company, c.Name, c.Email))
}

func (n Notifier) NotifyGeneralContact(ctx context.Context, c GeneralContact) error {
	c = GeneralContact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Subject: strings.TrimSpace(c.Subject),
		Message: strings.TrimSpace(c.Message),
	}
	if err := ValidateStruct(c); err != nil {
		return errs.NewValidationError("contact", GeneralContactInvalidMessage)
	}

	html, err := renderEmail("general", c)
	if err != nil {
		return errs.NewInternalErrorWithCause("render general contact email", err)
	}
	msg := Message{
		To:      []string{n.recipient},
		Subject: singleLine("Nova Mensagem de Contato de " + c.Name),
		HTML:    html,
		ReplyTo: singleLine(c.Email),
	}
	return n.deliver(ctx, msg, fmt.Sprintf("Nova mensagem de %s - %s", c.Name, c.Email))
}

// deliver sends the email; the SMS copy is best effort.
func (n Notifier) deliver(ctx context.Context, msg Message, smsBody string) error {
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error().Err(err).Str("subject", msg.Subject).Msg("failed to send contact email")
		return errs.NewDeliveryError("email", err)
	}
	n.logger.Info().Str("subject", msg.Subject).Msg("contact email sent")

	if n.sms != nil && n.smsTo != "" {
		if err := n.sms.SendSMS(ctx, n.smsTo, smsBody); err != nil {
			n.logger.Warn().Err(err).Msg("failed to send contact sms copy")
		}
	}
	return nil
}

func renderEmail(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
