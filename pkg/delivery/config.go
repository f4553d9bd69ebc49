package delivery

import "time"

// Config carries provider credentials and routing behavior. Missing
// credentials do not make the configuration invalid; they make the
// corresponding channel unavailable at selection time.
type Config struct {
	TwilioAccountSID   string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber   string `env:"TWILIO_FROM_NUMBER"`
	TwilioWhatsAppFrom string `env:"TWILIO_WHATSAPP_FROM"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL"`

	FailoverEnabled bool          `env:"NOTIFICATION_FAILOVER_ENABLED" envDefault:"true"`
	SendTimeout     time.Duration `env:"SEND_TIMEOUT" envDefault:"30s"`
}

// WhatsAppConfigured reports whether WhatsApp sends have full credentials.
func (c Config) WhatsAppConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}

// SMSConfigured reports whether SMS sends have full credentials.
func (c Config) SMSConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

// EmailConfigured reports whether email sends have full credentials.
func (c Config) EmailConfigured() bool {
	return c.PostmarkServerToken != "" && c.SenderEmail != ""
}
