package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"

	MailTransportSMTP   = "smtp"
	MailTransportResend = "resend"
)

// Settings is the typed view of the environment map used by main.
type Settings struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL         string
	DatabaseReplicaURLs []string
	AutoMigrate         bool

	SessionSecret string
	SessionTTL    time.Duration

	UploadBackend  string
	UploadFolder   string
	UploadMaxBytes int64
	S3Bucket       string
	S3Endpoint     string
	S3Prefix       string

	MailTransport   string
	MailServer      string
	MailPort        int
	MailUsername    string
	MailPassword    string
	ResendAPIKey    string
	ResendFromEmail string
	NotifyRecipient string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	NotifySMSTo      string

	AcceptedOrigins []string
	MetricsEnabled  bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func (s Settings) IsDevelopment() bool {
	return s.Environment == "development"
}

// SMSEnabled reports whether every Twilio setting needed for the SMS copy is present.
func (s Settings) SMSEnabled() bool {
	return s.TwilioAccountSID != "" && s.TwilioAuthToken != "" && s.TwilioFromNumber != "" && s.NotifySMSTo != ""
}

// Load builds Settings from an environment map and validates the combination.
func Load(c map[string]string) (Settings, error) {
	s := Settings{
		Port:        GetString(c, "PORT", "8080"),
		Environment: strings.ToLower(GetString(c, "APP_ENV", "development")),
		LogLevel:    strings.ToLower(GetString(c, "LOG_LEVEL", "info")),

		DatabaseURL:         GetString(c, "DATABASE_URL", ""),
		DatabaseReplicaURLs: GetList(c, "DATABASE_REPLICA_URLS"),
		AutoMigrate:         GetBool(c, "AUTO_MIGRATE", false),

		SessionSecret: GetString(c, "SESSION_SECRET", ""),
		SessionTTL:    time.Duration(GetInt(c, "SESSION_TTL_HOURS", 12)) * time.Hour,

		UploadBackend:  strings.ToLower(GetString(c, "UPLOAD_BACKEND", UploadBackendLocal)),
		UploadFolder:   GetString(c, "UPLOAD_FOLDER", "uploads"),
		UploadMaxBytes: int64(GetInt(c, "UPLOAD_MAX_MB", 16)) << 20,
		S3Bucket:       GetString(c, "S3_BUCKET", ""),
		S3Endpoint:     GetString(c, "S3_ENDPOINT", ""),
		S3Prefix:       GetString(c, "S3_PREFIX", ""),

		MailTransport:   strings.ToLower(GetString(c, "MAIL_TRANSPORT", MailTransportSMTP)),
		MailServer:      GetString(c, "MAIL_SERVER", "smtp.gmail.com"),
		MailPort:        GetInt(c, "MAIL_PORT", 587),
		MailUsername:    GetString(c, "MAIL_USERNAME", ""),
		MailPassword:    GetString(c, "MAIL_PASSWORD", ""),
		ResendAPIKey:    GetString(c, "RESEND_API_KEY", ""),
		ResendFromEmail: GetString(c, "RESEND_FROM_EMAIL", ""),
		NotifyRecipient: GetString(c, "NOTIFY_RECIPIENT", ""),

		TwilioAccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: GetString(c, "TWILIO_FROM_NUMBER", ""),
		NotifySMSTo:      GetString(c, "NOTIFY_SMS_TO", ""),

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		MetricsEnabled:  GetBool(c, "METRICS_ENABLED", true),

		ReadTimeout:  time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout: time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:  time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
	}

	return s, s.validate()
}

func (s Settings) validate() error {
	var problems []error

	if s.DatabaseURL == "" {
		problems = append(problems, errors.New("DATABASE_URL is required"))
	}
	if s.SessionSecret == "" && !s.IsDevelopment() {
		problems = append(problems, errors.New("SESSION_SECRET is required outside development"))
	}

	switch s.UploadBackend {
	case UploadBackendLocal:
	case UploadBackendS3:
		if s.S3Bucket == "" {
			problems = append(problems, errors.New("S3_BUCKET is required when UPLOAD_BACKEND=s3"))
		}
	default:
		problems = append(problems, fmt.Errorf("UPLOAD_BACKEND must be %q or %q, got %q", UploadBackendLocal, UploadBackendS3, s.UploadBackend))
	}

	switch s.MailTransport {
	case MailTransportSMTP:
	case MailTransportResend:
		if s.ResendAPIKey == "" || s.ResendFromEmail == "" {
			problems = append(problems, errors.New("RESEND_API_KEY and RESEND_FROM_EMAIL are required when MAIL_TRANSPORT=resend"))
		}
	default:
		problems = append(problems, fmt.Errorf("MAIL_TRANSPORT must be %q or %q, got %q", MailTransportSMTP, MailTransportResend, s.MailTransport))
	}

	if s.UploadMaxBytes <= 0 {
		problems = append(problems, errors.New("UPLOAD_MAX_MB must be positive"))
	}

	return errors.Join(problems...)
}
