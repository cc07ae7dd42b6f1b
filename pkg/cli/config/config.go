package config

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

// ProjectFile is a TOML seed of projects to register
//
//	[[project]]
//	user = "alice"
//	name = "Roadmap"
//	owner = "octo-org"
//	repo = "roadmap"
//	board = 1
type ProjectFile struct {
	Projects []ProjectEntry `toml:"project"`
}

// ProjectEntry is one [[project]] table
type ProjectEntry struct {
	User  string `toml:"user"`
	Name  string `toml:"name"`
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`
	Board int    `toml:"board"`
}

// ToProject converts the entry. An empty user means the anonymous user.
func (e *ProjectEntry) ToProject() *model.Project {
	user := e.User
	if user == "" {
		user = model.AnonymousUserID
	}
	return &model.Project{
		UserID:      user,
		Name:        e.Name,
		Owner:       e.Owner,
		Repo:        e.Repo,
		BoardNumber: e.Board,
	}
}

func (e *ProjectEntry) key() string {
	return fmt.Sprintf("%s:%s/%s#%d", e.User, e.Owner, e.Repo, e.Board)
}

// Validate checks every entry and rejects duplicates within the file
func (f *ProjectFile) Validate() error {
	seen := make(map[string]bool)
	for i := range f.Projects {
		entry := &f.Projects[i]
		if err := entry.ToProject().Validate(); err != nil {
			return goerr.Wrap(err, "invalid project entry", goerr.V(ProjectIndexKey, i))
		}
		if seen[entry.key()] {
			return goerr.Wrap(ErrDuplicateProject, "project listed twice",
				goerr.V(ProjectIndexKey, i), goerr.V("board", entry.key()))
		}
		seen[entry.key()] = true
	}
	return nil
}

// LoadProjectFile loads and validates a project seed file
func LoadProjectFile(path string) (*ProjectFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read project file", goerr.V(ConfigPathKey, path))
	}

	var file ProjectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML project file",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "project file validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}
