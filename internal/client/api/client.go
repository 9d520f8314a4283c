// Package api issues authenticated and unauthenticated HTTP requests against
// the ThreatWatch backend subsystems and decodes their JSON responses.
//
// Every outcome is a typed error, never a panic: transport failures wrap
// common.ErrUnavailable, a 401 triggers the uniform session-expiry reaction
// and yields common.ErrUnauthorized, and any other non-2xx status becomes a
// *StatusError carrying the decoded server detail.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bennieslab/threatwatch/internal/client/session"
	"github.com/bennieslab/threatwatch/internal/common"
	"github.com/bennieslab/threatwatch/internal/logging"
)

// Client is the shared HTTP boundary of the CLI. It attaches the stored
// bearer credential to authenticated calls and funnels every 401 through
// session.Store.ExpireOnce, so callers never re-implement that check.
type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	log     logging.Logger
}

// New constructs a Client. baseURL addresses the IDS aggregation service;
// requests to other subsystems pass absolute URLs.
func New(baseURL string, timeout time.Duration, store *session.Store, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		log:     log,
	}
}

// resolve turns a path into a full URL against the base, passing absolute
// URLs through untouched so the email/SMS manager endpoints can be reached.
func (c *Client) resolve(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	return c.baseURL + pathOrURL
}

// detailEnvelope matches the error shape of the backend services:
// {"detail": "..."} with detail occasionally being a structured value.
type detailEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

func decodeDetail(body []byte, status string) string {
	var env detailEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Detail) > 0 {
		var s string
		if err := json.Unmarshal(env.Detail, &s); err == nil {
			return s
		}
		return string(env.Detail)
	}
	return status
}

// do performs one request and applies the uniform outcome classification.
// The caller owns the payload encoding; do never re-encodes a body.
func (c *Client) do(ctx context.Context, method, pathOrURL string, body io.Reader, contentType string, requiresAuth bool) ([]byte, error) {
	target := c.resolve(pathOrURL)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if requiresAuth {
		// An absent credential still lets the call fire; the server rejects it.
		if token, ok := c.store.Token(); ok {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "url", target, "err", err)
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request completed",
		"method", method, "url", target, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		c.store.ExpireOnce()
		return nil, common.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Detail: decodeDetail(data, resp.Status)}
	}
	return data, nil
}

func decodeInto(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// GetJSON issues a GET and decodes the JSON response into out (ignored when
// out is nil).
func (c *Client) GetJSON(ctx context.Context, pathOrURL string, requiresAuth bool, out any) error {
	data, err := c.do(ctx, http.MethodGet, pathOrURL, nil, "", requiresAuth)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// PostJSON marshals payload as a JSON body, issues a POST and decodes the
// response into out.
func (c *Client) PostJSON(ctx context.Context, pathOrURL string, payload any, requiresAuth bool, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data, err := c.do(ctx, http.MethodPost, pathOrURL, bytes.NewReader(body), "application/json", requiresAuth)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// PostForm issues a POST with an application/x-www-form-urlencoded body.
// Used by the credential exchange, which the auth service only accepts in
// form encoding.
func (c *Client) PostForm(ctx context.Context, pathOrURL string, values url.Values, requiresAuth bool, out any) error {
	data, err := c.do(ctx, http.MethodPost, pathOrURL, strings.NewReader(values.Encode()),
		"application/x-www-form-urlencoded", requiresAuth)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// PostMultipart issues a POST with a multipart/form-data body previously
// assembled by BuildMultipart.
func (c *Client) PostMultipart(ctx context.Context, pathOrURL string, body *bytes.Buffer, contentType string, requiresAuth bool, out any) error {
	data, err := c.do(ctx, http.MethodPost, pathOrURL, body, contentType, requiresAuth)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}
