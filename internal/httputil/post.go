// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by every endpoint call.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBody caps how much of a failed response body is kept for the error.
const maxErrorBody = 2048

// StatusError reports an endpoint that answered with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %s", e.Status)
	}
	return fmt.Sprintf("HTTP %s: %s", e.Status, e.Body)
}

// RequestOptions holds the per-request headers and credentials.
type RequestOptions struct {
	Accept    string
	UserAgent string

	// Username and Password enable HTTP basic auth when Username is set.
	Username string
	Password string
}

// PostForm sends form as an application/x-www-form-urlencoded POST to
// endpoint. A 2xx response is returned open for the caller to read and
// close. Any other status is drained, closed, and returned as a
// *StatusError. The request is sent exactly once.
func PostForm(ctx context.Context, client *http.Client, endpoint string, form url.Values, opts RequestOptions) (*http.Response, error) {
	body := form.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	if opts.Username != "" {
		req.SetBasicAuth(opts.Username, opts.Password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return resp, nil
}
