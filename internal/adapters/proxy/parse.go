// Package proxy provides the ports.ProxySource implementations.
package proxy

import (
	"bufio"
	"io"
	"net"
	"net/url"
	"strings"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/zerr"
)

const defaultScheme = "socks5"

// ParseLine parses one proxy entry. Accepted forms are host:port,
// host:port:user:password and scheme://[user:password@]host:port.
func ParseLine(line string) (*domain.Proxy, error) {
	line = strings.TrimSpace(line)
	if strings.Contains(line, "://") {
		u, err := url.Parse(line)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidProxy, err.Error()), "entry", line)
		}
		if _, _, err := net.SplitHostPort(u.Host); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidProxy, err.Error()), "entry", line)
		}
		p := &domain.Proxy{Scheme: u.Scheme, Host: u.Host}
		if u.User != nil {
			p.Username = u.User.Username()
			p.Password, _ = u.User.Password()
		}
		return p, nil
	}

	parts := strings.Split(line, ":")
	switch len(parts) {
	case 2:
		return &domain.Proxy{Scheme: defaultScheme, Host: net.JoinHostPort(parts[0], parts[1])}, nil
	case 4:
		return &domain.Proxy{
			Scheme:   defaultScheme,
			Host:     net.JoinHostPort(parts[0], parts[1]),
			Username: parts[2],
			Password: parts[3],
		}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidProxy, "unrecognised proxy entry"), "entry", line)
	}
}

// parseList reads one entry per line, skipping blanks and # comments. Invalid
// entries are returned separately so callers can report them.
func parseList(r io.Reader) ([]*domain.Proxy, []error) {
	var (
		proxies []*domain.Proxy
		errs    []error
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := ParseLine(line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		proxies = append(proxies, p)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, zerr.Wrap(domain.ErrProxySourceFailed, err.Error()))
	}
	return proxies, errs
}
