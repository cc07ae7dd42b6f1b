package github

import "net/http"

func NewWithHTTPClient(httpClient *http.Client, opts ...Option) Service {
	return newClient(httpClient, opts...)
}
