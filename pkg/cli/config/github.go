package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/service/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds configuration for the board client. A personal access token
// takes precedence over GitHub App credentials.
type GitHub struct {
	token          string
	appID          int
	installationID int
	privateKey     string
	endpoint       string
	fetchTimeout   time.Duration
	maxAttempts    int
	retryDelay     time.Duration
}

// Flags returns CLI flags for GitHub configuration
func (g *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token with read access to projects",
			Category:    "GitHub",
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_TOKEN", "GITHUB_TOKEN"),
			Destination: &g.token,
		},
		&cli.IntFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_APP_ID"),
			Destination: &g.appID,
		},
		&cli.IntFlag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App Installation ID",
			Category:    "GitHub",
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_APP_INSTALLATION_ID"),
			Destination: &g.installationID,
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key (PEM string or file path)",
			Category:    "GitHub",
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_APP_PRIVATE_KEY"),
			Destination: &g.privateKey,
		},
		&cli.StringFlag{
			Name:        "github-graphql-endpoint",
			Usage:       "GraphQL endpoint for GitHub Enterprise Server",
			Category:    "GitHub",
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_GRAPHQL_ENDPOINT"),
			Destination: &g.endpoint,
		},
		&cli.DurationFlag{
			Name:        "github-fetch-timeout",
			Usage:       "Timeout of one board page request including retries",
			Category:    "GitHub",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_FETCH_TIMEOUT"),
			Destination: &g.fetchTimeout,
		},
		&cli.IntFlag{
			Name:        "github-max-attempts",
			Usage:       "Attempts per board page request",
			Category:    "GitHub",
			Value:       3,
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_MAX_ATTEMPTS"),
			Destination: &g.maxAttempts,
		},
		&cli.DurationFlag{
			Name:        "github-retry-delay",
			Usage:       "Initial backoff between attempts",
			Category:    "GitHub",
			Value:       500 * time.Millisecond,
			Sources:     cli.EnvVars("BOARDSIGHT_GITHUB_RETRY_DELAY"),
			Destination: &g.retryDelay,
		},
	}
}

// LogAttrs returns log attributes for the GitHub configuration (secrets hidden)
func (g *GitHub) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("auth", g.authMode()),
		slog.Int("app_id", g.appID),
		slog.Int("installation_id", g.installationID),
		slog.String("fetch_timeout", g.fetchTimeout.String()),
		slog.Int("max_attempts", g.maxAttempts),
	}
}

func (g *GitHub) authMode() string {
	switch {
	case g.token != "":
		return "token"
	case g.isAppConfigured():
		return "app"
	default:
		return "none"
	}
}

func (g *GitHub) isAppConfigured() bool {
	return g.appID != 0 && g.installationID != 0 && g.privateKey != ""
}

// IsConfigured returns true if a token or a complete set of GitHub App flags is set
func (g *GitHub) IsConfigured() bool {
	return g.authMode() != "none"
}

// Configure creates a new GitHub Service from the configured flags.
// Returns nil if no credentials are configured (sync will be disabled).
func (g *GitHub) Configure() (github.Service, error) {
	opts := []github.Option{
		github.WithFetchTimeout(g.fetchTimeout),
		github.WithRetry(g.maxAttempts, g.retryDelay),
	}
	if g.endpoint != "" {
		opts = append(opts, github.WithEndpoint(g.endpoint))
	}

	switch g.authMode() {
	case "token":
		svc, err := github.NewWithToken(g.token, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub service")
		}
		return svc, nil

	case "app":
		svc, err := github.NewWithApp(int64(g.appID), int64(g.installationID), g.privateKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub service")
		}
		return svc, nil

	default:
		return nil, nil
	}
}
