package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrInvalidProject = goerr.New("invalid project")
	ErrInvalidFilter  = goerr.New("invalid work item filter")
)

// Context keys for error values
const (
	FieldNameKey  = "field_name"
	FieldKindKey  = "field_kind"
	ProjectIDKey  = "project_id"
	ExternalIDKey = "external_id"
)
