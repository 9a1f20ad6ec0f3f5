package domain

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

var (
	webPathRegex   = regexp.MustCompile(`^/@[^/]+/video/(\d+)`)
	sharePathRegex = regexp.MustCompile(`^/(?:share/video|v)/(\d+)`)
	postIDRegex    = regexp.MustCompile(`^\d+$`)
	expiryRegex    = regexp.MustCompile(`x-expires=(\d+)`)
)

// ParseShareLink extracts the post id from an in-app share link. Both the
// share_item_id query parameter and the /share/video/<id> and /v/<id>.html
// path forms are accepted.
func ParseShareLink(link string) (string, error) {
	u, err := parseLink(link)
	if err != nil {
		return "", err
	}
	if id := u.Query().Get("share_item_id"); postIDRegex.MatchString(id) {
		return id, nil
	}
	if m := sharePathRegex.FindStringSubmatch(u.Path); m != nil {
		return m[1], nil
	}
	if m := webPathRegex.FindStringSubmatch(u.Path); m != nil {
		return m[1], nil
	}
	return "", zerr.With(zerr.Wrap(ErrInvalidLink, "share link carries no post id"), "link", link)
}

// ParseWebLink extracts the post id from a browser link of the form
// https://host/@user/video/<id>.
func ParseWebLink(link string) (string, error) {
	u, err := parseLink(link)
	if err != nil {
		return "", err
	}
	m := webPathRegex.FindStringSubmatch(u.Path)
	if m == nil {
		return "", zerr.With(zerr.Wrap(ErrInvalidLink, "web link carries no post id"), "link", link)
	}
	return m[1], nil
}

// ParseShortLink validates a short redirect link and returns it normalized.
// The post id behind a short link is only known after following the redirect.
func ParseShortLink(link string) (string, error) {
	u, err := parseLink(link)
	if err != nil {
		return "", err
	}
	if strings.Trim(u.Path, "/") == "" {
		return "", zerr.With(zerr.Wrap(ErrInvalidLink, "short link carries no code"), "link", link)
	}
	return u.String(), nil
}

// ParseResolvedLink extracts the post id from the destination of a short link.
func ParseResolvedLink(link string) (string, error) {
	if id, err := ParseWebLink(link); err == nil {
		return id, nil
	}
	return ParseShareLink(link)
}

func parseLink(link string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrInvalidLink, err.Error()), "link", link)
	}
	if u.Host == "" {
		return nil, zerr.With(zerr.Wrap(ErrInvalidLink, "link has no host"), "link", link)
	}
	return u, nil
}

// ExtractExpiry returns the unix expiry embedded in a signed media URL.
func ExtractExpiry(mediaURL string) (int64, error) {
	m := expiryRegex.FindStringSubmatch(mediaURL)
	if m == nil {
		return 0, zerr.With(zerr.Wrap(ErrExpiryNotFound, "no x-expires parameter"), "url", mediaURL)
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(ErrExpiryNotFound, err.Error()), "url", mediaURL)
	}
	return ts, nil
}
