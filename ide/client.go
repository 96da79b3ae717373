// Package ide talks to the SmartThings web IDE over HTTP using a
// session-cookie login
package ide

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brettbedarf/stshell/config"
	"github.com/brettbedarf/stshell/internal/util"
)

type sessionState = int32

const (
	stateNew sessionState = iota
	stateActive
	stateExpired
	stateClosed
)

// RequestIDHeader tags every request for log correlation
const RequestIDHeader = "X-Request-ID"

// Client is a session handle for one IDE account. It is created by [Login]
// and invalidated by [Client.Logout] or when the IDE sends it back to the
// login page.
type Client struct {
	cfg      *config.Config
	base     *url.URL
	routes   *Registry
	http     *http.Client // follows redirects
	noFollow *http.Client // shares the jar, returns redirects as-is
	state    atomic.Int32
	logger   zerolog.Logger
}

// NewClient creates a logged-out client with the built-in routes registered.
// Use [Client.Login] before any other call.
func NewClient(cfg *config.Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url scheme: %q", cfg.BaseURL)
	}

	routes := NewRegistry()
	routes.RegisterBuiltins()

	return &Client{
		cfg:    cfg,
		base:   base,
		routes: routes,
		logger: util.GetLogger("ide"),
	}, nil
}

// Login creates a client and logs it in
func Login(ctx context.Context, cfg *config.Config) (*Client, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Registry exposes the route table so callers can register extra kinds
func (c *Client) Registry() *Registry {
	return c.routes
}

// Login posts the configured credentials with a fresh cookie jar. It
// succeeds when the IDE answers 200 away from the login page and has set a
// session cookie.
func (c *Client) Login(ctx context.Context) error {
	if c.state.Load() == stateClosed {
		return ErrSessionClosed
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.http = &http.Client{Jar: jar, Timeout: c.cfg.Timeout}
	c.noFollow = &http.Client{
		Jar:     jar,
		Timeout: c.cfg.Timeout,
		CheckRedirect: func(*http.Request, []*http.Response) error {
			return http.ErrUseLastResponse
		},
	}

	form := url.Values{"j_username": {c.cfg.Username}, "j_password": {c.cfg.Password}}
	req, err := c.newFormRequest(ctx, LoginPath, nil, form)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) // nolint:errcheck

	if resp.StatusCode != http.StatusOK || !c.hasSessionCookie() {
		c.logger.Error().Int("status", resp.StatusCode).Str("user", c.cfg.Username).Msg("Failed to login")
		return fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}
	// rejected credentials land back on the login page, which may hand out
	// an anonymous session cookie
	if landed := resp.Request.URL.Path; c.isLoginPage(landed) {
		c.logger.Error().Str("page", landed).Str("user", c.cfg.Username).Msg("Failed to login")
		return fmt.Errorf("%w: redirected to %s", ErrLoginFailed, landed)
	}

	c.state.Store(stateActive)
	c.logger.Info().Str("user", c.cfg.Username).Str("url", c.base.String()).Msg("Logged in")
	return nil
}

// Logout invalidates the handle; every later call returns [ErrSessionClosed]
func (c *Client) Logout() {
	if c.state.Swap(stateClosed) == stateActive {
		c.logger.Debug().Msg("Logged out")
	}
	c.http, c.noFollow = nil, nil
}

// Active reports whether the session can still be used
func (c *Client) Active() bool {
	return c.state.Load() == stateActive
}

func (c *Client) hasSessionCookie() bool {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == SessionCookie {
			return true
		}
	}
	return false
}

func (c *Client) checkSession() error {
	switch c.state.Load() {
	case stateActive:
		return nil
	case stateExpired:
		return ErrSessionExpired
	case stateClosed:
		return ErrSessionClosed
	default:
		return ErrNotLoggedIn
	}
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), body)
	if err != nil {
		return nil, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) newFormRequest(ctx context.Context, path string, query, form url.Values) (*http.Request, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, query, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// response is a fully read reply
type response struct {
	status   int
	location string
	body     []byte
}

// do sends req on the active session and reads the whole body. A reply
// that lands on, or redirects to, the login page expires the session.
func (c *Client) do(req *http.Request, follow bool) (*response, error) {
	if err := c.checkSession(); err != nil {
		return nil, err
	}
	client := c.http
	if !follow {
		client = c.noFollow
	}

	logger := c.logger.With().
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Logger()

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("IDE request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	r := &response{status: resp.StatusCode, location: resp.Header.Get("Location"), body: body}
	logger.Debug().Int("status", r.status).Int("size", len(body)).Msg("IDE request")

	if c.isLoginPage(resp.Request.URL.Path) || (!follow && c.isLoginPage(locationPath(r.location))) {
		c.state.CompareAndSwap(stateActive, stateExpired)
		logger.Warn().Msg("Session expired")
		return nil, ErrSessionExpired
	}
	return r, nil
}

func (c *Client) isLoginPage(path string) bool {
	p := strings.TrimPrefix(path, strings.TrimRight(c.base.Path, "/"))
	return p == LoginPagePath || strings.HasPrefix(p, LoginPagePath+"/")
}

func locationPath(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Path
}

func expect(op string, r *response, want int) error {
	if r.status != want {
		return &StatusError{Op: op, Status: r.status, Want: want}
	}
	return nil
}
