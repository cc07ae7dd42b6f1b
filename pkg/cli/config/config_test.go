package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/cli/config"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadProjectFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		want    int
	}{
		{
			name: "valid file",
			content: `
[[project]]
user = "alice"
name = "Roadmap"
owner = "octo-org"
repo = "roadmap"
board = 1

[[project]]
name = "Platform"
owner = "octo-org"
repo = "platform"
board = 2
`,
			want: 2,
		},
		{
			name: "duplicate board for the same user",
			content: `
[[project]]
user = "alice"
name = "Roadmap"
owner = "octo-org"
repo = "roadmap"
board = 1

[[project]]
user = "alice"
name = "Roadmap again"
owner = "octo-org"
repo = "roadmap"
board = 1
`,
			wantErr: config.ErrDuplicateProject,
		},
		{
			name: "missing board number",
			content: `
[[project]]
name = "Roadmap"
owner = "octo-org"
repo = "roadmap"
`,
			wantErr: model.ErrInvalidProject,
		},
		{
			name:    "broken TOML",
			content: `[[project]`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "empty file",
			content: ``,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := config.LoadProjectFile(writeFile(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Array(t, file.Projects).Length(tt.want)
		})
	}
}

func TestLoadProjectFileMissing(t *testing.T) {
	_, err := config.LoadProjectFile(filepath.Join(t.TempDir(), "nope.toml"))
	gt.Value(t, err).NotNil()
}

func TestProjectEntryDefaultsToAnonymous(t *testing.T) {
	entry := config.ProjectEntry{Name: "Roadmap", Owner: "o", Repo: "r", Board: 1}
	gt.Value(t, entry.ToProject().UserID).Equal(model.AnonymousUserID)
}

func TestSyncValidate(t *testing.T) {
	gt.NoError(t, config.NewSyncForTest(time.Minute, "").Validate()).Required()
	gt.NoError(t, config.NewSyncForTest(time.Minute, "*/15 * * * *").Validate()).Required()
	gt.NoError(t, config.NewSyncForTest(0, "@every 1h").Validate()).Required()
	gt.Error(t, config.NewSyncForTest(time.Minute, "hourly").Validate()).Is(config.ErrInvalidConfig)
	gt.Error(t, config.NewSyncForTest(-time.Second, "").Validate()).Is(config.ErrInvalidConfig)
}

func TestSlackConfigure(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc, err := config.NewSlackForTest("", "").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, svc).Nil()
	})

	t.Run("token without channel", func(t *testing.T) {
		_, err := config.NewSlackForTest("xoxb-test", "").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("configured", func(t *testing.T) {
		svc, err := config.NewSlackForTest("xoxb-test", "C0123").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestGitHubConfigure(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		cfg := config.NewGitHubForTest("", 0, 0, "")
		gt.Bool(t, cfg.IsConfigured()).False()

		svc, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, svc).Nil()
	})

	t.Run("token", func(t *testing.T) {
		cfg := config.NewGitHubForTest("ghp_test", 0, 0, "")
		gt.Bool(t, cfg.IsConfigured()).True()

		svc, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})

	t.Run("incomplete app credentials", func(t *testing.T) {
		cfg := config.NewGitHubForTest("", 1234, 0, "key")
		gt.Bool(t, cfg.IsConfigured()).False()
	})

	t.Run("invalid app private key", func(t *testing.T) {
		cfg := config.NewGitHubForTest("", 1234, 5678, "not a pem")
		_, err := cfg.Configure()
		gt.Value(t, err).NotNil()
	})
}

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory, "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close()).Required()
	})

	t.Run("postgres without url", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendPostgres, "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestLoggerConfigure(t *testing.T) {
	defer logging.SetDefault(logging.Default())

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("loud", "console", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "boardsight.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("hello", "project_id", 1)
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains(`"msg":"hello"`)
	})
}
