package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v77/github"
)

const rateLimitMessage = "GitHub rate limit exceeded. Please use a GitHub API token or try again later."

// UpstreamError is the single error kind raised for any upstream failure:
// transport, authentication, rate limit or query validity. The status code
// mirrors the upstream response and is what the process surfaces report.
type UpstreamError struct {
	Message    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// wrapAPIError translates a go-github error into an UpstreamError.
// Rate-limit responses are rewritten to a clearer message suggesting
// authenticated access; everything else passes the upstream message
// through unchanged.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &UpstreamError{Message: rateLimitMessage, StatusCode: http.StatusForbidden}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &UpstreamError{Message: rateLimitMessage, StatusCode: http.StatusForbidden}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		code := http.StatusInternalServerError
		if respErr.Response != nil {
			code = respErr.Response.StatusCode
		}
		if code == http.StatusForbidden {
			return &UpstreamError{Message: rateLimitMessage, StatusCode: code}
		}
		return &UpstreamError{Message: respErr.Message, StatusCode: code}
	}

	return &UpstreamError{Message: err.Error(), StatusCode: http.StatusInternalServerError}
}
