// Package client talks to the battle game API over JSON/HTTPS.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/battlebot/internal/platform/errors"
	"github.com/louisbranch/battlebot/internal/platform/timeouts"
	"github.com/louisbranch/battlebot/internal/services/battle/sign"
)

// DefaultBaseURL is the production battle API.
const DefaultBaseURL = "https://battle-system-api.crabada.com"

const (
	userAgent    = "UnityPlayer/2020.3.31f1 (UnityWebRequest/1.0, libcurl/7.80.0-DEV)"
	unityVersion = "2020.3.31f1"
	userPrefix   = "/crabada-user"

	// maxResponseBytes bounds a decoded response body.
	maxResponseBytes = 4 << 20
)

// Client issues authenticated calls against the battle API. Every POST body
// is signed with sign.Checksum.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New builds a client for baseURL. An empty accessToken allows only the
// public login calls.
func New(baseURL, accessToken string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     baseURL,
		accessToken: strings.TrimSpace(accessToken),
		http:        &http.Client{Timeout: timeouts.APIRequest},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the response wrapper every endpoint returns.
type envelope struct {
	ErrorCode json.RawMessage `json:"error_code"`
	Message   string          `json:"message"`
	Result    json.RawMessage `json:"result"`
}

// get fetches path with query params and decodes the result into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, auth bool, out any) error {
	endpoint := c.baseURL + userPrefix + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "build request "+path, err)
	}
	return c.do(req, path, auth, out)
}

// post sends payload as compact JSON with the signature header.
func (c *Client) post(ctx context.Context, path string, payload any, auth bool, out any) error {
	body, err := encodeCompact(payload)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "encode request "+path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+userPrefix+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "build request "+path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sign.HeaderName, sign.Checksum(body))
	return c.do(req, path, auth, out)
}

func (c *Client) do(req *http.Request, path string, auth bool, out any) error {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("X-Unity-Version", unityVersion)
	if auth {
		if c.accessToken == "" {
			return apperrors.New(apperrors.CodeUnauthenticated, "access token is required for "+path)
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "request "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "read response "+path, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, fmt.Sprintf("decode response %s (%s)", path, resp.Status), err)
	}
	if code, failed := errorCode(env.ErrorCode); failed {
		return apperrors.WithMetadata(apperrors.CodeRemote,
			fmt.Sprintf("api request %s failed: %s -> %s", path, code, env.Message),
			map[string]string{"error_code": code, "path": path})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.WithMetadata(apperrors.CodeRemote,
			fmt.Sprintf("api request %s returned %s", path, resp.Status),
			map[string]string{"status": strconv.Itoa(resp.StatusCode), "path": path})
	}
	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return apperrors.Wrap(apperrors.CodeTransport, "decode result "+path, err)
	}
	return nil
}

// errorCode reports whether the raw error_code is set. Null, false, zero
// and the empty string all mean success.
func errorCode(raw json.RawMessage) (string, bool) {
	text := strings.TrimSpace(string(raw))
	switch text {
	case "", "null", "false", "0", `""`:
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	return text, true
}

// encodeCompact serializes v without insignificant whitespace or HTML
// escaping. The signature is computed over these exact bytes.
func encodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
