// Package webservice provides a base client for vendor REST web services.
//
// A Client composes its endpoint from scheme, host, port and service path,
// keeps one HTTP session (with optional basic-auth credentials) for its whole
// lifetime, and collapses every transport failure into a WebServiceError.
// Response inspection is delegated to a ResponseEvaluator.
//
// TLS certificates are not verified unless a Request asks for it.
package webservice

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/netapp-lib/webservice-go/pkg/httpclient"
)

// Config holds the connection parameters of a Client.
type Config struct {
	Scheme      string
	Host        string
	Port        string
	ServicePath string
	Username    string
	Password    string
	// Extra is passed through untouched for clients built on top of this one.
	Extra map[string]any
}

// Request aliases the transport request so callers only import this package.
type Request = httpclient.Request

// Response aliases the transport response.
type Response = httpclient.Response

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// WithEvaluator sets the hook run on every completed response.
func WithEvaluator(ev ResponseEvaluator) Option {
	return func(c *Client) {
		if ev != nil {
			c.evaluator = ev
		}
	}
}

// WithTransport replaces the resty session, mostly for tests. The replacement
// owns authentication: Config.Username and Config.Password are not applied to it.
func WithTransport(t httpclient.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.conn = t
		}
	}
}

// Client is a reusable web service client. It is safe for concurrent use.
type Client struct {
	endpoint  string
	username  string
	password  string
	extra     map[string]any
	conn      httpclient.Client
	evaluator ResponseEvaluator
	log       Logger

	insecureOnce sync.Once
}

// PortFromInt formats a numeric port for Config.Port.
func PortFromInt(port int) string {
	return strconv.Itoa(port)
}

// New validates cfg and returns a client bound to the resulting endpoint.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := validateParams(cfg.Scheme, cfg.Host, cfg.Port); err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:  createEndpoint(cfg.Scheme, cfg.Host, cfg.Port, cfg.ServicePath),
		username:  cfg.Username,
		password:  cfg.Password,
		extra:     copyExtra(cfg.Extra),
		evaluator: NopEvaluator{},
		log:       noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.conn == nil {
		c.conn = httpclient.NewRestyClient(httpclient.Options{
			Username: c.username,
			Password: c.password,
		})
	}

	c.log.DebugObj("web service client initialized", "client", map[string]any{
		"endpoint":   c.endpoint,
		"basic_auth": c.username != "" && c.password != "",
	})
	return c, nil
}

func validateParams(scheme, host, port string) error {
	if host == "" || port == "" || scheme == "" {
		return &ConfigurationError{Reason: "one or more of host/port/scheme missing"}
	}
	if scheme != "http" && scheme != "https" {
		return &ConfigurationError{Reason: "invalid transport type"}
	}
	return nil
}

// createEndpoint joins the parts without query or fragment. A relative
// service path gets a leading slash; an empty one leaves the bare authority.
// The path is used verbatim, so pre-encoded segments are not escaped again.
func createEndpoint(scheme, host, port, servicePath string) string {
	if servicePath != "" && !strings.HasPrefix(servicePath, "/") {
		servicePath = "/" + servicePath
	}
	return scheme + "://" + host + ":" + port + servicePath
}

func copyExtra(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Endpoint returns the URL used when a request carries none.
func (c *Client) Endpoint() string { return c.endpoint }

// Extra returns a copy of the pass-through configuration options.
func (c *Client) Extra() map[string]any { return copyExtra(c.extra) }

// Invoke performs req over the client session. An empty req.URL targets the
// endpoint and an empty req.Method means GET. Any transport failure is logged
// and reported as *WebServiceError. Completed responses, whatever their
// status, go through the evaluator before being returned.
func (c *Client) Invoke(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.URL) == "" {
		req.URL = c.endpoint
	}
	if !req.VerifyTLS && strings.HasPrefix(strings.ToLower(req.URL), "https:") {
		c.insecureOnce.Do(func() {
			c.log.WarnObj("tls certificate verification disabled", "endpoint", c.endpoint)
		})
	}

	resp, err := c.conn.Do(ctx, req)
	if err != nil {
		c.log.ErrorObj("unexpected error while invoking web service", "invoke_error", map[string]any{
			"method": req.Method,
			"url":    req.URL,
			"error":  err.Error(),
		})
		return nil, &WebServiceError{Cause: err}
	}

	if err := c.evaluator.Evaluate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
