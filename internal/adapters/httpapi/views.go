package httpapi

import (
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/engine/query"
)

type errorBody struct {
	Error string `json:"error"`
}

type userView struct {
	LoginName string `json:"login_name"`
	Name      string `json:"name"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
	Likes     int64  `json:"likes"`
	Avatar    string `json:"avatar"`
	Sid       string `json:"sid"`
	Secret    int    `json:"secret"`
}

// postSummary is the reduced post shown by the summary search routes.
type postSummary struct {
	Cover         string `json:"cover"`
	AnimatedCover string `json:"animated_cover"`
	AwemeID       string `json:"aweme_id"`
	Description   string `json:"description"`
}

type searchResponse struct {
	User  userView `json:"user"`
	Posts any      `json:"posts"`
}

type postResponse struct {
	Posts *domain.Post `json:"posts"`
}

type likedResponse struct {
	Posts []domain.Post `json:"posts"`
}

type builtResponse struct {
	Request []domain.RequestInfo `json:"request"`
}

func newUserView(p *domain.Profile) userView {
	v := userView{
		LoginName: p.LoginName,
		Name:      p.Name,
		Followers: p.Followers,
		Following: p.Following,
		Likes:     p.Likes,
		Avatar:    p.Avatar,
		Sid:       p.UserID,
	}
	if p.Secret {
		v.Secret = 1
	}
	return v
}

func newSearchResponse(res *query.ProfileResult, full bool) searchResponse {
	out := searchResponse{User: newUserView(res.Profile)}
	if full {
		out.Posts = nonNil(res.Posts)
		return out
	}
	summaries := make([]postSummary, 0, len(res.Posts))
	for _, p := range res.Posts {
		summaries = append(summaries, postSummary{
			Cover:         p.Cover,
			AnimatedCover: p.AnimatedCover,
			AwemeID:       p.ID,
			Description:   p.Description,
		})
	}
	out.Posts = summaries
	return out
}

func nonNil(posts []domain.Post) []domain.Post {
	if posts == nil {
		return []domain.Post{}
	}
	return posts
}
