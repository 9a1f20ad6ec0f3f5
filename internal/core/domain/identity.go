package domain

import (
	"net/url"
	"sync/atomic"
	"time"
)

// Proxy is an egress endpoint an identity sends its calls through.
type Proxy struct {
	Scheme   string
	Host     string
	Username string
	Password string
}

// URL returns the proxy as a URL, including credentials when present.
func (p *Proxy) URL() *url.URL {
	u := &url.URL{Scheme: p.Scheme, Host: p.Host}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// String renders the proxy without credentials.
func (p *Proxy) String() string {
	if p == nil {
		return "direct"
	}
	return p.Scheme + "://" + p.Host
}

// Identity is an emulated client session used to issue remote calls.
//
// ID, Binding and CreatedAt never change after construction. The proxy
// assignment may be replaced concurrently by any caller; the last write wins.
type Identity struct {
	ID        string
	Binding   map[string]string
	CreatedAt time.Time

	proxy atomic.Pointer[Proxy]
}

// NewIdentity creates an identity bound to the given proxy (nil for direct).
func NewIdentity(id string, binding map[string]string, createdAt time.Time, proxy *Proxy) *Identity {
	i := &Identity{
		ID:        id,
		Binding:   binding,
		CreatedAt: createdAt,
	}
	i.proxy.Store(proxy)
	return i
}

// Proxy returns the current proxy assignment, nil meaning a direct connection.
func (i *Identity) Proxy() *Proxy {
	return i.proxy.Load()
}

// Rebind replaces the proxy assignment. Calls already in flight keep the proxy
// they started with.
func (i *Identity) Rebind(p *Proxy) {
	i.proxy.Store(p)
}

// Detached returns a view of the identity sharing its binding but with no proxy.
// Rebinding the view does not affect the pooled identity.
func (i *Identity) Detached() *Identity {
	return NewIdentity(i.ID, i.Binding, i.CreatedAt, nil)
}
