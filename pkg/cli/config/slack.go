package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for sync notifications
type Slack struct {
	botToken string
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for sync notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("BOARDSIGHT_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving sync notifications",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("BOARDSIGHT_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured returns true when both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channel != ""
}

// Channel returns the notification channel ID
func (x *Slack) Channel() string {
	return x.channel
}

// Configure creates the Slack service. Returns nil when notifications are
// not configured.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" && x.channel == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrInvalidConfig, "both --slack-bot-token and --slack-channel are required for notifications")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack service")
	}
	return svc, nil
}
