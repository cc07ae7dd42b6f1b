package config

import "time"

// NewSyncForTest creates a Sync config for testing purposes
func NewSyncForTest(timeout time.Duration, schedule string) *Sync {
	return &Sync{timeout: timeout, schedule: schedule}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{botToken: botToken, channel: channel}
}

// NewGitHubForTest creates a GitHub config for testing purposes
func NewGitHubForTest(token string, appID, installationID int, privateKey string) *GitHub {
	return &GitHub{
		token:          token,
		appID:          appID,
		installationID: installationID,
		privateKey:     privateKey,
		fetchTimeout:   time.Second,
		maxAttempts:    1,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, databaseURL string) *Repository {
	return &Repository{backend: backend, databaseURL: databaseURL}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
