package remote

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/zerr"
)

type registerRequest struct {
	Header registerHeader `json:"header"`
}

type registerHeader struct {
	OpenUDID     string `json:"openudid"`
	CDID         string `json:"cdid"`
	AppID        string `json:"aid"`
	AppName      string `json:"app_name"`
	VersionCode  string `json:"version_code"`
	OS           string `json:"os"`
	OSVersion    string `json:"os_version"`
	DeviceModel  string `json:"device_model"`
	ClientUDID   string `json:"clientudid"`
	Region       string `json:"region"`
	Language     string `json:"language"`
	TimezoneName string `json:"tz_name"`
}

// newBinding generates the client-side identifiers of a fresh device.
func newBinding() map[string]string {
	raw := uuid.New()
	return map[string]string{
		BindingOpenUDID: hex.EncodeToString(raw[:8]),
		BindingCDID:     uuid.NewString(),
	}
}

func (c *Client) registerSpec(id *domain.Identity) (*spec, error) {
	body, err := json.Marshal(registerRequest{Header: registerHeader{
		OpenUDID:     id.Binding[BindingOpenUDID],
		CDID:         id.Binding[BindingCDID],
		AppID:        appID,
		AppName:      appName,
		VersionCode:  versionCode,
		OS:           platform,
		OSVersion:    osVersion,
		DeviceModel:  deviceModel,
		ClientUDID:   id.Binding[BindingCDID],
		Region:       "US",
		Language:     "en",
		TimezoneName: "America/New_York",
	}})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode registration")
	}

	q := c.commonQuery(id)
	q.Del("device_id")
	q.Del("iid")
	return &spec{
		method: http.MethodPost,
		url:    c.cfg.APIBaseURL + pathRegister + "?" + q.Encode(),
		headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
			"User-Agent":   c.userAgent(),
		},
		body: body,
	}, nil
}

// Register creates a new device identity with the remote platform, sending
// the registration through proxy. The returned identity stays bound to proxy.
func (c *Client) Register(ctx context.Context, proxy *domain.Proxy) (*domain.Identity, error) {
	pending := domain.NewIdentity("", newBinding(), c.now(), proxy)

	op := domain.Operation{Kind: domain.OpRegister}
	resp, err := c.execute(ctx, pending, op)
	if err != nil {
		return nil, err
	}
	out, err := decode[registerResponse](op.Kind, resp)
	if err != nil {
		return nil, err
	}
	if out.DeviceID == "" || out.DeviceID == "0" || out.InstallID == "" {
		return nil, protocolError(string(op.Kind), zerr.New("registration returned no device id"))
	}

	binding := pending.Binding
	binding[BindingDeviceID] = out.DeviceID
	binding[BindingInstallID] = out.InstallID
	return domain.NewIdentity(out.DeviceID, binding, pending.CreatedAt, proxy), nil
}
