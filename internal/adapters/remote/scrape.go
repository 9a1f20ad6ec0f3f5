package remote

import (
	"bytes"
	"encoding/json"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	nextDataID  = "__NEXT_DATA__"
	sigiStateID = "SIGI_STATE"
)

type nextData struct {
	Props struct {
		PageProps *struct {
			ServerCode int `json:"serverCode"`
			UserInfo   struct {
				User struct {
					SecUID string `json:"secUid"`
				} `json:"user"`
			} `json:"userInfo"`
		} `json:"pageProps"`
	} `json:"props"`
}

type sigiState struct {
	MobileUserPage struct {
		SecUID     string `json:"secUid"`
		StatusCode int    `json:"statusCode"`
	} `json:"MobileUserPage"`
}

// extractUserID reads the user id from the state embedded in a profile page.
// A page without embedded state is an automation challenge.
func extractUserID(page []byte) (string, error) {
	const op = string(domain.OpResolveUser)
	scripts := embeddedScripts(page, nextDataID, sigiStateID)

	if raw, ok := scripts[nextDataID]; ok {
		var state nextData
		if err := json.Unmarshal(raw, &state); err != nil {
			return "", protocolError(op, err)
		}
		props := state.Props.PageProps
		if props == nil {
			return "", protocolError(op, zerr.New("page state has no pageProps"))
		}
		if props.ServerCode == 404 {
			return "", zerr.Wrap(domain.ErrNotFound, "user page reports 404")
		}
		if props.UserInfo.User.SecUID == "" {
			return "", protocolError(op, zerr.New("page state has no user id"))
		}
		return props.UserInfo.User.SecUID, nil
	}

	if raw, ok := scripts[sigiStateID]; ok {
		var state sigiState
		if err := json.Unmarshal(raw, &state); err != nil {
			return "", protocolError(op, err)
		}
		if state.MobileUserPage.StatusCode == 10202 {
			return "", zerr.Wrap(domain.ErrNotFound, "user page reports missing user")
		}
		if state.MobileUserPage.SecUID == "" {
			return "", protocolError(op, zerr.New("page state has no user id"))
		}
		return state.MobileUserPage.SecUID, nil
	}

	return "", domain.NewRemoteError(domain.FailureChallenge, op, zerr.New("page carries no embedded state"))
}

// embeddedScripts returns the bodies of the <script> elements whose id is one
// of ids, keyed by id. The first element with a given id wins.
func embeddedScripts(page []byte, ids ...string) map[string][]byte {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	found := make(map[string][]byte, len(ids))
	z := html.NewTokenizer(bytes.NewReader(page))
	current := ""
	for {
		switch z.Next() {
		case html.ErrorToken:
			return found
		case html.StartTagToken:
			current = ""
			name, hasAttr := z.TagName()
			if atom.Lookup(name) != atom.Script {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) != "id" {
					continue
				}
				if id := string(val); wanted[id] {
					if _, seen := found[id]; !seen {
						current = id
						found[id] = []byte{}
					}
				}
			}
		case html.TextToken:
			if current != "" {
				found[current] = append(found[current], z.Text()...)
			}
		case html.EndTagToken:
			current = ""
		}
	}
}
