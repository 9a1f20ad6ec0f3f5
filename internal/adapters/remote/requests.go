package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/zerr"
)

// Binding keys stored on every identity.
const (
	BindingDeviceID  = "device_id"
	BindingInstallID = "install_id"
	BindingOpenUDID  = "openudid"
	BindingCDID      = "cdid"
)

// Fixed client fingerprint sent with every API call.
const (
	appID       = "1233"
	appName     = "musical_ly"
	versionCode = "300904"
	platform    = "android"
	deviceModel = "Pixel 6"
	osVersion   = "13"
)

const (
	pathProfile  = "/aweme/v1/user/profile/other/"
	pathPosts    = "/aweme/v1/aweme/post/"
	pathLiked    = "/aweme/v1/aweme/favorite/"
	pathDetail   = "/aweme/v1/aweme/detail/"
	pathRegister = "/service/2/device_register/"
)

// spec is a request before it is bound to a context.
type spec struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

// BuildRequest renders the request for op as id would send it, without sending it.
func (c *Client) BuildRequest(id *domain.Identity, op domain.Operation) (*domain.RequestInfo, error) {
	s, err := c.requestSpec(id, op)
	if err != nil {
		return nil, err
	}
	return &domain.RequestInfo{
		Method:  s.method,
		URL:     s.url,
		Headers: s.headers,
		Body:    string(s.body),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, id *domain.Identity, op domain.Operation) (*http.Request, error) {
	s, err := c.requestSpec(id, op)
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if s.body != nil {
		body = bytes.NewReader(s.body)
	}
	req, err := http.NewRequestWithContext(ctx, s.method, s.url, body)
	if err != nil {
		return nil, domain.NewRemoteError(domain.FailureUnexpected, string(op.Kind), err)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) requestSpec(id *domain.Identity, op domain.Operation) (*spec, error) {
	switch op.Kind {
	case domain.OpProfile:
		q := c.commonQuery(id)
		q.Set("sec_user_id", op.UserID)
		return c.apiGet(id, pathProfile, q), nil
	case domain.OpPosts, domain.OpLikedPosts:
		q := c.commonQuery(id)
		q.Set("sec_user_id", op.UserID)
		q.Set("max_cursor", strconv.Itoa(op.Page.Cursor))
		q.Set("count", strconv.Itoa(op.Page.Count))
		path := pathPosts
		if op.Kind == domain.OpLikedPosts {
			path = pathLiked
		}
		return c.apiGet(id, path, q), nil
	case domain.OpPost:
		q := c.commonQuery(id)
		q.Set("aweme_id", op.PostID)
		return c.apiGet(id, pathDetail, q), nil
	case domain.OpResolveUser:
		return &spec{
			method: http.MethodGet,
			url:    c.cfg.WebBaseURL + "/@" + url.PathEscape(op.Username) + "?lang=en",
			headers: map[string]string{
				"User-Agent":      c.cfg.UserAgent,
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Accept-Language": "en-US,en;q=0.9",
			},
		}, nil
	case domain.OpShortLink:
		return &spec{
			method:  http.MethodGet,
			url:     op.Link,
			headers: map[string]string{"User-Agent": c.cfg.UserAgent},
		}, nil
	case domain.OpRegister:
		return c.registerSpec(id)
	default:
		return nil, zerr.With(zerr.New("unsupported operation"), "op", string(op.Kind))
	}
}

func (c *Client) commonQuery(id *domain.Identity) url.Values {
	q := url.Values{}
	q.Set("aid", appID)
	q.Set("app_name", appName)
	q.Set("version_code", versionCode)
	q.Set("device_platform", platform)
	q.Set("device_type", deviceModel)
	q.Set("os_version", osVersion)
	q.Set("device_id", id.Binding[BindingDeviceID])
	q.Set("iid", id.Binding[BindingInstallID])
	return q
}

func (c *Client) apiHeaders(id *domain.Identity) map[string]string {
	h := map[string]string{
		"Accept":     "application/json",
		"User-Agent": c.userAgent(),
	}
	if v := id.Binding[BindingOpenUDID]; v != "" {
		h["X-SS-Openudid"] = v
	}
	return h
}

func (c *Client) userAgent() string {
	return "com.zhiliaoapp.musically/" + versionCode + " (Linux; U; Android " + osVersion + "; en_US; " + deviceModel + ")"
}

func (c *Client) apiGet(id *domain.Identity, path string, q url.Values) *spec {
	return &spec{
		method:  http.MethodGet,
		url:     c.cfg.APIBaseURL + path + "?" + q.Encode(),
		headers: c.apiHeaders(id),
	}
}
