// Package apiclient talks to the monitoring backend. It only moves data; it
// never touches view state or the stored session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/session"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewHTTPClient returns an *http.Client with bounded dial, TLS and header
// timeouts on top of the overall request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

func New(baseURL string, hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = NewHTTPClient(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    hc,
		Logger:  log,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInResponse struct {
	JWT string `json:"jwt"`
}

type listResponse struct {
	Websites []domain.Website `json:"websites"`
}

type addRequest struct {
	URL string `json:"url"`
}

// SignIn exchanges credentials for a token.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	const op = "user.signin"
	var out signInResponse
	if err := c.do(ctx, op, http.MethodPost, "/user/signin", nil, credentials{username, password}, &out); err != nil {
		return "", err
	}
	if out.JWT == "" {
		return "", &Error{Kind: KindEmpty, Op: op}
	}
	return out.JWT, nil
}

func (c *Client) SignUp(ctx context.Context, username, password string) error {
	return c.do(ctx, "user.signup", http.MethodPost, "/user/signup", nil, credentials{username, password}, nil)
}

// ListWebsites returns every website owned by the session's account, each
// with its newest-first tick history.
func (c *Client) ListWebsites(ctx context.Context, s session.Session) ([]domain.Website, error) {
	var out listResponse
	if err := c.do(ctx, "websites.list", http.MethodGet, "/websites", &s, nil, &out); err != nil {
		return nil, err
	}
	if out.Websites == nil {
		out.Websites = []domain.Website{}
	}
	return out.Websites, nil
}

// Website returns one website with its full tick history. A body without an
// id counts as an empty response.
func (c *Client) Website(ctx context.Context, s session.Session, id domain.WebsiteID) (*domain.Website, error) {
	const op = "websites.status"
	var out *domain.Website
	if err := c.do(ctx, op, http.MethodGet, "/status/"+url.PathEscape(string(id)), &s, nil, &out); err != nil {
		return nil, err
	}
	if out == nil || out.ID == "" {
		return nil, &Error{Kind: KindEmpty, Op: op}
	}
	if out.Ticks == nil {
		out.Ticks = []domain.Tick{}
	}
	return out, nil
}

func (c *Client) AddWebsite(ctx context.Context, s session.Session, rawURL string) error {
	return c.do(ctx, "websites.add", http.MethodPost, "/website", &s, addRequest{URL: rawURL}, nil)
}

func (c *Client) DeleteWebsite(ctx context.Context, s session.Session, id domain.WebsiteID) error {
	return c.do(ctx, "websites.delete", http.MethodDelete, "/website/"+url.PathEscape(string(id)), &s, nil, nil)
}

// DeleteAccount removes the account and everything it owns.
func (c *Client) DeleteAccount(ctx context.Context, s session.Session) error {
	return c.do(ctx, "user.delete", http.MethodDelete, "/user", &s, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, s *session.Session, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindDecode, Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if s != nil {
		// The stored token is sent as-is; no scheme prefix is added.
		req.Header.Set("Authorization", s.Token)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.Logger.Debug("api_request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode/100 != 2 {
		return &Error{
			Kind:       kindForStatus(resp.StatusCode),
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    readMessage(resp.Body),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &Error{Kind: KindEmpty, Op: op, StatusCode: resp.StatusCode}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// readMessage pulls {"message": "..."} or {"error": "..."} from an error
// body, falling back to nothing.
func readMessage(r io.Reader) string {
	var p struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}
