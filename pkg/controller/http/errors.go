package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/service/github"
	"github.com/secmon-lab/boardsight/pkg/usecase"
)

// errBadRequest marks malformed request bodies and parameters
var errBadRequest = errors.New("bad request")

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return http.StatusNotFound

	case errors.Is(err, usecase.ErrProjectAlreadyExists),
		errors.Is(err, usecase.ErrSyncInProgress):
		return http.StatusConflict

	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrInvalidProject),
		errors.Is(err, model.ErrInvalidFilter),
		errors.Is(err, usecase.ErrRepositoryInaccessible),
		errors.Is(err, github.ErrBoardNotFound):
		return http.StatusBadRequest

	case goerr.HasTag(err, usecase.TagBoardFetch):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
