package github

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"os"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

const (
	itemsPerPage = 100

	defaultFetchTimeout = 30 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryDelay   = time.Second
)

type client struct {
	gql          *githubv4.Client
	fetchTimeout time.Duration
	maxAttempts  int
	retryDelay   time.Duration
}

type options struct {
	endpoint     string
	fetchTimeout time.Duration
	maxAttempts  int
	retryDelay   time.Duration
}

type Option func(*options)

// WithEndpoint sets the GraphQL endpoint, for GitHub Enterprise Server
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// WithFetchTimeout bounds each page request including its retries
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.fetchTimeout = d }
}

// WithRetry sets the number of attempts per page request and the initial
// backoff delay
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(o *options) {
		o.maxAttempts = maxAttempts
		o.retryDelay = initialDelay
	}
}

// NewWithToken creates a new GitHub Service authenticated with a personal
// access token
func NewWithToken(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is empty")
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return newClient(oauth2.NewClient(context.Background(), src), opts...), nil
}

// NewWithApp creates a new GitHub Service using GitHub App authentication.
// privateKey can be a PEM string or a file path to a PEM file.
func NewWithApp(appID, installationID int64, privateKey string, opts ...Option) (Service, error) {
	var key []byte

	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	} else {
		key = []byte(privateKey)
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID), goerr.V("installation_id", installationID))
	}

	return newClient(&http.Client{Transport: tr}, opts...), nil
}

func newClient(httpClient *http.Client, opts ...Option) *client {
	o := options{
		fetchTimeout: defaultFetchTimeout,
		maxAttempts:  defaultMaxAttempts,
		retryDelay:   defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *httpClient
	wrapped.Transport = &statusTransport{base: base}
	httpClient = &wrapped

	var gql *githubv4.Client
	if o.endpoint != "" {
		gql = githubv4.NewEnterpriseClient(o.endpoint, httpClient)
	} else {
		gql = githubv4.NewClient(httpClient)
	}

	return &client{
		gql:          gql,
		fetchTimeout: o.fetchTimeout,
		maxAttempts:  max(o.maxAttempts, 1),
		retryDelay:   o.retryDelay,
	}
}

// query runs one GraphQL request bounded by the fetch timeout and retried
// with exponential backoff
func (c *client) query(ctx context.Context, q any, variables map[string]any) error {
	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   c.maxAttempts,
		InitialDelay:  c.retryDelay,
		BackoffPolicy: retry.BackoffExponential,
		IsRetryable:   isTransient,
	})
	t := timeout.New[struct{}](timeout.Config{
		DefaultTimeout: c.fetchTimeout,
	})

	_, err := t.Execute(ctx, c.fetchTimeout, func(ctx context.Context) (struct{}, error) {
		return r.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.gql.Query(ctx, q, variables)
		})
	})
	return err
}

func (c *client) FetchProjectItems(ctx context.Context, owner, repo string, number int) iter.Seq2[*model.BoardItem, error] {
	return func(yield func(*model.BoardItem, error) bool) {
		var cursor *githubv4.String

		for {
			var q projectItemsQuery
			variables := map[string]any{
				"owner":  githubv4.String(owner),
				"name":   githubv4.String(repo),
				"number": githubv4.Int(number),
				"first":  githubv4.Int(itemsPerPage),
				"cursor": cursor,
			}

			if err := c.query(ctx, &q, variables); err != nil {
				if isNotResolved(err) {
					yield(nil, goerr.Wrap(ErrBoardNotFound, "project board not found",
						goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("board_number", number),
						goerr.V("reason", err.Error())))
					return
				}
				yield(nil, goerr.Wrap(err, "failed to fetch project items",
					goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("board_number", number)))
				return
			}

			board := q.Repository.ProjectV2
			if board == nil {
				yield(nil, goerr.Wrap(ErrBoardNotFound, "project board not found",
					goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("board_number", number)))
				return
			}

			for _, node := range board.Items.Nodes {
				if !yield(convertItem(node), nil) {
					return
				}
			}

			if !board.Items.PageInfo.HasNextPage {
				return
			}
			end := board.Items.PageInfo.EndCursor
			cursor = &end
		}
	}
}

// ValidateRepository checks repository accessibility and returns metadata
func (c *client) ValidateRepository(ctx context.Context, owner, repo string) (*RepositoryValidation, error) {
	var q repositoryQuery
	variables := map[string]any{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}

	if err := c.query(ctx, &q, variables); err != nil {
		return &RepositoryValidation{
			Valid:        false,
			Owner:        owner,
			Repo:         repo,
			ErrorMessage: err.Error(),
		}, nil
	}

	return &RepositoryValidation{
		Valid:       true,
		Owner:       owner,
		Repo:        repo,
		FullName:    fmt.Sprintf("%s/%s", owner, repo),
		Description: string(q.Repository.Description),
		IsPrivate:   bool(q.Repository.IsPrivate),
	}, nil
}
