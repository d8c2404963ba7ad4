package httpclient

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Options configures the session shared by every request of a RestyClient.
type Options struct {
	Username string
	Password string
}

// HasCredentials reports whether both halves of the basic-auth pair are set.
func (o Options) HasCredentials() bool {
	return o.Username != "" && o.Password != ""
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
//
// TLS verification is a transport setting in resty, so the session keeps one
// client per verification mode. Both carry the same credentials. A RestyClient
// is not mutated after construction and is safe for concurrent use.
type RestyClient struct {
	verified   *resty.Client
	unverified *resty.Client
}

// NewRestyClient creates a new RestyClient for the given session options.
func NewRestyClient(opts Options) *RestyClient {
	return &RestyClient{
		verified:   newRestyBaseClient(opts, false),
		unverified: newRestyBaseClient(opts, true),
	}
}

// newRestyBaseClient creates a new resty.Client without a client-wide timeout.
func newRestyBaseClient(opts Options, insecure bool) *resty.Client {
	c := resty.New()
	c.SetDisableWarn(true)
	if insecure {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}
	if opts.HasCredentials() {
		c.SetBasicAuth(opts.Username, opts.Password)
	}
	return c
}

// Do performs the request described by req.
func (r *RestyClient) Do(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	client := r.unverified
	if req.VerifyTLS {
		client = r.verified
	}

	rr := client.R().SetContext(ctx)
	if len(req.Params) > 0 {
		rr.SetQueryParamsFromValues(req.Params)
	}
	if len(req.Headers) > 0 {
		rr.SetHeaders(req.Headers)
	}
	if req.Body != nil {
		rr.SetBody(req.Body)
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	resp, err := rr.Execute(method, req.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Status() string      { return r.resp.Status() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
