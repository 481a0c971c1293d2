// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

// App is the top-level application configuration.
type App struct {
	Env    string `envconfig:"APP_ENV" default:"development"`
	DB     DB
	SMTP   SMTP
	Notify Notify
	Log    Log
}

// DB holds the persistence settings.
type DB struct {
	Url string `envconfig:"DATABASE_URL"`
}

// SMTP holds the mail relay settings for receipt delivery. Leaving Host
// empty disables the mail channel. Recipient is the mailbox receipts go
// to; owner address resolution lives with the identity collaborator, so
// the daemon delivers to a configured audit mailbox instead.
type SMTP struct {
	Host      string `envconfig:"SMTP_HOST"`
	Port      int    `envconfig:"SMTP_PORT" default:"587"`
	Sender    string `envconfig:"SMTP_SENDER"`
	Password  string `envconfig:"SMTP_PASSWORD"`
	Recipient string `envconfig:"SMTP_RECIPIENT"`
}

// Notify holds the webhook receipt channel settings. Leaving WebhookURL
// empty disables the channel.
type Notify struct {
	WebhookURL string `envconfig:"NOTIFY_WEBHOOK_URL"`
}

// Log holds logger settings.
type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}
