package remote

import (
	"context"
	"encoding/json"
	"net/url"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/zerr"
)

// decode unmarshals an API answer, classifying empty and undecodable bodies.
func decode[T any](op domain.OperationKind, resp *response) (*T, error) {
	if len(resp.body) == 0 {
		return nil, domain.NewRemoteError(domain.FailureEmptyBody, string(op), nil)
	}
	var v T
	if err := json.Unmarshal(resp.body, &v); err != nil {
		return nil, protocolError(string(op), err)
	}
	return &v, nil
}

// FetchProfile returns the profile of userID.
func (c *Client) FetchProfile(ctx context.Context, id *domain.Identity, userID string) (*domain.Profile, error) {
	op := domain.Operation{Kind: domain.OpProfile, UserID: userID}
	resp, err := c.execute(ctx, id, op)
	if err != nil {
		return nil, err
	}
	out, err := decode[profileResponse](op.Kind, resp)
	if err != nil {
		return nil, err
	}
	if out.StatusCode != 0 {
		return nil, protocolError(string(op.Kind), statusError(out.StatusCode))
	}
	if out.User == nil || out.User.SecUID == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "profile has no user"), "user_id", userID)
	}
	return out.User.toProfile(), nil
}

// FetchPosts returns one page of posts published by userID, newest first.
func (c *Client) FetchPosts(ctx context.Context, id *domain.Identity, userID string, page domain.Page) ([]domain.Post, error) {
	return c.fetchList(ctx, id, domain.Operation{Kind: domain.OpPosts, UserID: userID, Page: page})
}

// FetchLikedPosts returns one page of posts liked by userID.
func (c *Client) FetchLikedPosts(ctx context.Context, id *domain.Identity, userID string, page domain.Page) ([]domain.Post, error) {
	return c.fetchList(ctx, id, domain.Operation{Kind: domain.OpLikedPosts, UserID: userID, Page: page})
}

func (c *Client) fetchList(ctx context.Context, id *domain.Identity, op domain.Operation) ([]domain.Post, error) {
	resp, err := c.execute(ctx, id, op)
	if err != nil {
		return nil, err
	}
	out, err := decode[listResponse](op.Kind, resp)
	if err != nil {
		return nil, err
	}
	if out.StatusCode != 0 {
		return nil, protocolError(string(op.Kind), statusError(out.StatusCode))
	}
	posts := c.toPosts(out.AwemeList)
	if len(posts) > op.Page.Count {
		posts = posts[:op.Page.Count]
	}
	return posts, nil
}

// FetchPost returns the post with postID.
func (c *Client) FetchPost(ctx context.Context, id *domain.Identity, postID string) (*domain.Post, error) {
	op := domain.Operation{Kind: domain.OpPost, PostID: postID}
	resp, err := c.execute(ctx, id, op)
	if err != nil {
		return nil, err
	}
	out, err := decode[detailResponse](op.Kind, resp)
	if err != nil {
		return nil, err
	}
	if out.StatusCode != 0 {
		return nil, protocolError(string(op.Kind), statusError(out.StatusCode))
	}
	if out.AwemeDetail == nil || out.AwemeDetail.AwemeID == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "post has no detail"), "post_id", postID)
	}
	post := c.toPost(out.AwemeDetail)
	return &post, nil
}

// ResolveUsername scrapes the public profile page of username for its user id.
func (c *Client) ResolveUsername(ctx context.Context, id *domain.Identity, username string) (string, error) {
	op := domain.Operation{Kind: domain.OpResolveUser, Username: username}
	resp, err := c.execute(ctx, id, op)
	if err != nil {
		return "", zerr.With(err, "username", username)
	}
	if len(resp.body) == 0 {
		return "", domain.NewRemoteError(domain.FailureEmptyBody, string(op.Kind), nil)
	}
	userID, err := extractUserID(resp.body)
	if err != nil {
		return "", zerr.With(err, "username", username)
	}
	return userID, nil
}

// ResolveShortLink follows one redirect of link and returns its destination.
func (c *Client) ResolveShortLink(ctx context.Context, id *domain.Identity, link string) (string, error) {
	op := domain.Operation{Kind: domain.OpShortLink, Link: link}
	resp, err := c.execute(ctx, id, op)
	if err != nil {
		return "", err
	}
	if resp.location == "" {
		return "", domain.NewRemoteError(domain.FailureProtocol, string(op.Kind),
			zerr.With(zerr.New("short link did not redirect"), "status", resp.status))
	}
	base, err := url.Parse(link)
	if err != nil {
		return "", zerr.Wrap(domain.ErrInvalidLink, err.Error())
	}
	target, err := base.Parse(resp.location)
	if err != nil {
		return "", protocolError(string(op.Kind), err)
	}
	return target.String(), nil
}
