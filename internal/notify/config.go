package notify

import (
	"invite-redirector/internal/config"
	"invite-redirector/internal/logger"
)

// FromConfig builds a notifier over every sink that has credentials.
func FromConfig(cfg config.NotifyConfig) *Notifier {
	var sinks []Sink
	if cfg.SlackWebhookURL != "" {
		sinks = append(sinks, NewSlackWebhook(cfg.SlackWebhookURL, nil))
	}
	if cfg.SendGridAPIKey != "" {
		sinks = append(sinks, NewEmail(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailTo))
	}
	if cfg.SMTPHost != "" {
		sinks = append(sinks, NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailTo))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	logger.Info("Notification sinks configured", "sinks", names)

	return New(sinks...)
}
