package query

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/herd/internal/engine/race"
	"go.trai.ch/zerr"
)

// PostQuery names a post by any of its identifiers. Forms are tried in field order.
type PostQuery struct {
	ID        string
	ShareLink string
	WebLink   string
	ShortLink string
}

func (q PostQuery) empty() bool {
	return strings.TrimSpace(q.ID) == "" &&
		strings.TrimSpace(q.ShareLink) == "" &&
		strings.TrimSpace(q.WebLink) == "" &&
		strings.TrimSpace(q.ShortLink) == ""
}

// postForm resolves one identifier form to a post id.
type postForm struct {
	name    string
	value   string
	resolve func(ctx context.Context, id *domain.Identity, value string) (string, error)
}

func (s *Service) postForms(q PostQuery, online bool) []postForm {
	forms := []postForm{
		{name: "id", value: q.ID, resolve: func(_ context.Context, _ *domain.Identity, v string) (string, error) {
			return v, nil
		}},
		{name: "share_link", value: q.ShareLink, resolve: func(_ context.Context, _ *domain.Identity, v string) (string, error) {
			return domain.ParseShareLink(v)
		}},
		{name: "web_link", value: q.WebLink, resolve: func(_ context.Context, _ *domain.Identity, v string) (string, error) {
			return domain.ParseWebLink(v)
		}},
	}
	if online {
		forms = append(forms, postForm{name: "short_link", value: q.ShortLink, resolve: s.resolveShortLink})
	}

	present := forms[:0]
	for _, f := range forms {
		f.value = strings.TrimSpace(f.value)
		if f.value != "" {
			present = append(present, f)
		}
	}
	return present
}

func (s *Service) resolveShortLink(ctx context.Context, id *domain.Identity, link string) (string, error) {
	normalized, err := domain.ParseShortLink(link)
	if err != nil {
		return "", err
	}
	target, err := s.remote.ResolveShortLink(ctx, id, normalized)
	if err != nil {
		return "", err
	}
	return domain.ParseResolvedLink(target)
}

// PostByLink fetches a single post. Within each attempt the identifier forms
// are tried in order; a form that fails to parse or fetch is logged and the
// next one is tried. Unparseable forms alone never count as a failed attempt.
func (s *Service) PostByLink(ctx context.Context, q PostQuery) (*domain.Post, error) {
	if q.empty() {
		return nil, zerr.Wrap(domain.ErrNoIdentifier, "post lookup rejected")
	}
	ctx, span := s.tracer.Start(ctx, "query.post_by_link")
	defer span.End()

	forms := s.postForms(q, true)
	attempt := func(ctx context.Context, id *domain.Identity) race.Outcome[*domain.Post] {
		var lastErr error
		for _, form := range forms {
			postID, err := form.resolve(ctx, id, form.value)
			if err != nil {
				s.logger.Warn(fmt.Sprintf("post %s %q not usable: %v", form.name, form.value, err))
				if domain.FailureKindOf(err) != domain.FailureUnexpected {
					lastErr = err
				}
				continue
			}
			post, err := s.remote.FetchPost(ctx, id, postID)
			if err != nil {
				s.logger.Warn(fmt.Sprintf("post %s fetch via %s failed: %v", postID, form.name, err))
				lastErr = err
				continue
			}
			return race.Value(post)
		}
		if lastErr == nil {
			return race.NoValue[*domain.Post]()
		}
		return settle[*domain.Post](ctx, s, id, lastErr)
	}

	post, err := race.Submit(ctx, s.races, "post_by_link", attempt, race.FirstValue[*domain.Post]())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return post, nil
}

// defaultBuildCount applies when a build request asks for no requests.
const defaultBuildCount = 1

// BuildProfileRequests renders count profile requests for userID, each for a
// freshly checked-out identity without proxy.
func (s *Service) BuildProfileRequests(ctx context.Context, userID string, count int) ([]domain.RequestInfo, error) {
	if userID == "" {
		return nil, zerr.Wrap(domain.ErrMissingUserID, "request build rejected")
	}
	op := domain.Operation{Kind: domain.OpProfile, UserID: userID}
	return s.build(ctx, count, func(*domain.Identity) (domain.Operation, error) { return op, nil })
}

// BuildPostsRequests renders count requests for the first amount posts of userID.
func (s *Service) BuildPostsRequests(ctx context.Context, userID string, amount, count int) ([]domain.RequestInfo, error) {
	if userID == "" {
		return nil, zerr.Wrap(domain.ErrMissingUserID, "request build rejected")
	}
	if amount <= 0 {
		amount = domain.PageSize
	}
	op := domain.Operation{Kind: domain.OpPosts, UserID: userID, Page: domain.Page{Cursor: 0, Count: amount}}
	return s.build(ctx, count, func(*domain.Identity) (domain.Operation, error) { return op, nil })
}

// BuildPostRequests renders count post requests. Short links need a network
// round trip to resolve, so only the id, share link and web link forms apply.
func (s *Service) BuildPostRequests(ctx context.Context, q PostQuery, count int) ([]domain.RequestInfo, error) {
	if q.empty() {
		return nil, zerr.Wrap(domain.ErrNoIdentifier, "request build rejected")
	}
	forms := s.postForms(q, false)
	return s.build(ctx, count, func(id *domain.Identity) (domain.Operation, error) {
		var lastErr error
		for _, form := range forms {
			postID, err := form.resolve(ctx, id, form.value)
			if err != nil {
				s.logger.Warn(fmt.Sprintf("post %s %q not usable: %v", form.name, form.value, err))
				lastErr = err
				continue
			}
			return domain.Operation{Kind: domain.OpPost, PostID: postID}, nil
		}
		if lastErr == nil {
			lastErr = zerr.New("no offline identifier")
		}
		return domain.Operation{}, lastErr
	})
}

func (s *Service) build(ctx context.Context, count int, opFor func(*domain.Identity) (domain.Operation, error)) ([]domain.RequestInfo, error) {
	if count <= 0 {
		count = defaultBuildCount
	}
	_, span := s.tracer.Start(ctx, "query.build_requests", ports.WithAttribute("count", count))
	defer span.End()

	out := make([]domain.RequestInfo, 0, count)
	for range count {
		id, err := s.identities.Checkout(ctx, false)
		if err != nil {
			return nil, buildFailed(span, err)
		}
		op, err := opFor(id)
		if err != nil {
			return nil, buildFailed(span, err)
		}
		req, err := s.remote.BuildRequest(id, op)
		if err != nil {
			return nil, buildFailed(span, err)
		}
		out = append(out, *req)
	}
	return out, nil
}

func buildFailed(span ports.Span, cause error) error {
	err := zerr.With(zerr.Wrap(domain.ErrNotFound, "request build failed"), "cause", cause.Error())
	span.RecordError(err)
	return err
}
