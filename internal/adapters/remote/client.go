// Package remote implements the remote platform client over HTTP/2, optionally
// through a per-identity SOCKS5 or HTTP proxy.
package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/http2"
	xproxy "golang.org/x/net/proxy"
)

var (
	_ ports.RemoteClient    = (*Client)(nil)
	_ ports.IdentityFactory = (*Client)(nil)
)

// DefaultTransportLimit bounds how many per-proxy HTTP clients are kept open.
const DefaultTransportLimit = 64

// Client talks to the remote platform on behalf of identities. HTTP clients
// are kept per proxy so connections are reused across calls; the least
// recently used one is closed once the limit is reached.
type Client struct {
	cfg            domain.RemoteConfig
	logger         ports.Logger
	now            func() time.Time
	transportLimit int

	mu      sync.Mutex
	clients *lru.Cache[string, *http.Client]
}

// Option configures a Client.
type Option func(*Client)

// WithClock overrides the clock used for identity creation times.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithTransportLimit sets how many per-proxy HTTP clients stay cached.
func WithTransportLimit(n int) Option {
	return func(c *Client) {
		c.transportLimit = n
	}
}

// New creates a Client.
func New(cfg domain.RemoteConfig, logger ports.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
		transportLimit: DefaultTransportLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transportLimit < 1 {
		c.transportLimit = 1
	}
	// Only errors on a non-positive size.
	c.clients, _ = lru.NewWithEvict(c.transportLimit, func(_ string, hc *http.Client) {
		hc.CloseIdleConnections()
	})
	return c
}

// httpClient returns the shared client for proxy p, nil meaning direct.
func (c *Client) httpClient(p *domain.Proxy) (*http.Client, error) {
	key := "direct"
	if p != nil {
		key = p.URL().String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if hc, ok := c.clients.Get(key); ok {
		return hc, nil
	}

	transport, err := newTransport(p)
	if err != nil {
		return nil, err
	}
	hc := &http.Client{Transport: transport, Timeout: c.cfg.Timeout}
	c.clients.Add(key, hc)
	c.logger.Info("opened transport via " + p.String())
	return hc, nil
}

func newTransport(p *domain.Proxy) (*http.Transport, error) {
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	t := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}

	if p != nil {
		switch p.Scheme {
		case "socks5", "socks5h":
			d, err := xproxy.FromURL(p.URL(), dialer)
			if err != nil {
				return nil, connectionError("dial", err)
			}
			if cd, ok := d.(xproxy.ContextDialer); ok {
				t.DialContext = cd.DialContext
			} else {
				t.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
					return d.Dial(network, addr)
				}
			}
		default:
			t.Proxy = http.ProxyURL(p.URL())
		}
	}

	if err := http2.ConfigureTransport(t); err != nil {
		return nil, zerr.Wrap(err, "failed to enable http2")
	}
	return t, nil
}

// response is a fully read upstream answer.
type response struct {
	status   int
	body     []byte
	location string
}

// execute sends the request for op as id and reads the answer. Transport
// failures are connection errors; a 404 is a definitive miss; challenge and
// server statuses are classified; everything else non-2xx is unexpected.
func (c *Client) execute(ctx context.Context, id *domain.Identity, op domain.Operation) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, id, op)
	if err != nil {
		return nil, err
	}

	hc, err := c.httpClient(id.Proxy())
	if err != nil {
		return nil, err
	}
	if op.Kind == domain.OpShortLink {
		noRedirect := *hc
		noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		hc = &noRedirect
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, connectionError(string(op.Kind), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionError(string(op.Kind), err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "upstream answered 404"), "op", string(op.Kind))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewRemoteError(domain.FailureChallenge, string(op.Kind),
			fmt.Errorf("upstream answered %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, connectionError(string(op.Kind), fmt.Errorf("upstream answered %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, domain.NewRemoteError(domain.FailureUnexpected, string(op.Kind),
			fmt.Errorf("upstream answered %d", resp.StatusCode))
	}

	return &response{status: resp.StatusCode, body: body, location: resp.Header.Get("Location")}, nil
}

func connectionError(op string, err error) error {
	return domain.NewRemoteError(domain.FailureConnection, op, err)
}

func protocolError(op string, err error) error {
	return domain.NewRemoteError(domain.FailureProtocol, op, err)
}
