package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. Each given env file is
// loaded first when present; a missing file is only a warning since
// production deployments configure through the environment directly.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using system environment variables")
		}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			logger.Warn("env file not loaded", "path", path, "error", err)
		}
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"smtp_host", cfg.SMTP.Host,
		"smtp_sender", cfg.SMTP.Sender,
		"notify_webhook", maskValue(cfg.Notify.WebhookURL),
		"log_level", cfg.Log.Level,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-4:]
}
