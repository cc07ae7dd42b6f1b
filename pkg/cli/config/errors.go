package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrDuplicateProject = goerr.New("duplicate project entry")
	ErrMissingName      = goerr.New("name is required")
)

// Context keys for error values
const (
	ConfigPathKey   = "config_path"
	ProjectIndexKey = "project_index"
)
