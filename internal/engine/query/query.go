// Package query implements the public lookups on top of the racing executor,
// the identity pool and the result cache.
package query

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/herd/internal/engine/cache"
	"go.trai.ch/herd/internal/engine/race"
	"go.trai.ch/zerr"
)

// DefaultLikedAmount is used when a liked-posts query asks for no amount.
const DefaultLikedAmount = 20

// Identities is the part of the identity pool the queries use.
type Identities interface {
	race.Checkouter
	Rebind(ctx context.Context, id *domain.Identity)
}

// ProfileResult is a profile with up to the requested number of its latest posts.
type ProfileResult struct {
	Profile *domain.Profile
	Posts   []domain.Post
}

// Service runs the queries.
type Service struct {
	remote     ports.RemoteClient
	identities Identities
	cache      *cache.Cache
	races      *race.Executor
	logger     ports.Logger
	tracer     ports.Tracer
}

// NewService creates a Service.
func NewService(
	remote ports.RemoteClient,
	identities Identities,
	c *cache.Cache,
	races *race.Executor,
	logger ports.Logger,
	tracer ports.Tracer,
) *Service {
	return &Service{
		remote:     remote,
		identities: identities,
		cache:      c,
		races:      races,
		logger:     logger,
		tracer:     tracer,
	}
}

// ProfileByID looks up a profile and, when amount is positive and the account
// is not secret, its latest posts. The upstream sometimes reports public
// accounts as secret, so a secret answer only wins once a second attempt
// confirms it.
func (s *Service) ProfileByID(ctx context.Context, userID string, amount int) (*ProfileResult, error) {
	if userID == "" {
		return nil, zerr.Wrap(domain.ErrMissingUserID, "profile lookup rejected")
	}
	ctx, span := s.tracer.Start(ctx, "query.profile_by_id",
		ports.WithAttribute("user_id", userID),
		ports.WithAttribute("amount", amount),
	)
	defer span.End()

	attempt := func(ctx context.Context, id *domain.Identity) race.Outcome[*ProfileResult] {
		profile, ok := s.cache.Profile(ctx, userID)
		if !ok {
			fetched, err := s.remote.FetchProfile(ctx, id, userID)
			if err != nil {
				return settle[*ProfileResult](ctx, s, id, err)
			}
			profile = fetched
		}
		if profile.Secret {
			s.logger.Warn(fmt.Sprintf("profile %s reported as secret by identity %s", userID, id.ID))
		}

		res := &ProfileResult{Profile: profile}
		if amount > 0 && !profile.Secret {
			posts, ok := s.cache.LatestPosts(ctx, userID, amount)
			if !ok {
				fetched, err := s.collectPages(ctx, id, userID, amount, s.remote.FetchPosts)
				if err != nil {
					return settle[*ProfileResult](ctx, s, id, err)
				}
				s.cache.StorePosts(ctx, fetched)
				posts = fetched
			}
			res.Posts = posts
		}
		return race.Value(res)
	}

	policy := race.ConfirmAmbiguous(func(r *ProfileResult) bool { return r.Profile.Secret })
	res, err := race.Submit(ctx, s.races, "profile_by_id", attempt, policy)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.With(err, "user_id", userID)
	}

	s.cache.StoreProfile(ctx, res.Profile)
	return res, nil
}

// ProfileByUsername resolves username to a user id, from the cache or by
// racing the resolution, and then runs ProfileByID.
func (s *Service) ProfileByUsername(ctx context.Context, username string, amount int) (*ProfileResult, error) {
	if username == "" {
		return nil, zerr.Wrap(domain.ErrMissingUsername, "profile lookup rejected")
	}

	userID, ok := s.cache.LookupUserID(ctx, username)
	if !ok {
		ctx, span := s.tracer.Start(ctx, "query.resolve_username", ports.WithAttribute("username", username))
		attempt := func(ctx context.Context, id *domain.Identity) race.Outcome[string] {
			resolved, err := s.remote.ResolveUsername(ctx, id, username)
			if err != nil {
				return settle[string](ctx, s, id, err)
			}
			if resolved == "" {
				return race.NoValue[string]()
			}
			return race.Value(resolved)
		}

		resolved, err := race.Submit(ctx, s.races, "resolve_username", attempt, race.FirstValue[string]())
		if err != nil {
			span.RecordError(err)
			span.End()
			if errors.Is(err, domain.ErrNotFound) {
				return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "user not found"), "username", username)
			}
			return nil, zerr.With(err, "username", username)
		}
		span.End()

		s.cache.StoreUserID(ctx, username, resolved)
		userID = resolved
	}

	return s.ProfileByID(ctx, userID, amount)
}

// LikedPosts returns up to amount posts liked by userID. A non-positive amount
// means DefaultLikedAmount.
func (s *Service) LikedPosts(ctx context.Context, userID string, amount int) ([]domain.Post, error) {
	if userID == "" {
		return nil, zerr.Wrap(domain.ErrMissingUserID, "liked posts lookup rejected")
	}
	if amount <= 0 {
		amount = DefaultLikedAmount
	}
	ctx, span := s.tracer.Start(ctx, "query.liked_posts",
		ports.WithAttribute("user_id", userID),
		ports.WithAttribute("amount", amount),
	)
	defer span.End()

	attempt := func(ctx context.Context, id *domain.Identity) race.Outcome[[]domain.Post] {
		posts, err := s.collectPages(ctx, id, userID, amount, s.remote.FetchLikedPosts)
		if err != nil {
			return settle[[]domain.Post](ctx, s, id, err)
		}
		return race.Value(posts)
	}

	posts, err := race.Submit(ctx, s.races, "liked_posts", attempt, race.FirstValue[[]domain.Post]())
	if err != nil {
		span.RecordError(err)
		return nil, zerr.With(err, "user_id", userID)
	}
	return posts, nil
}

type pageFetcher func(ctx context.Context, id *domain.Identity, userID string, page domain.Page) ([]domain.Post, error)

// collectPages issues every page covering amount items and truncates the
// concatenation to amount.
func (s *Service) collectPages(ctx context.Context, id *domain.Identity, userID string, amount int, fetch pageFetcher) ([]domain.Post, error) {
	var out []domain.Post
	for _, page := range domain.Pages(amount) {
		posts, err := fetch(ctx, id, userID, page)
		if err != nil {
			return nil, err
		}
		out = append(out, posts...)
	}
	if len(out) > amount {
		out = out[:amount]
	}
	return out, nil
}

// settle turns an attempt's error into a race outcome. Definitive misses and
// recoverable remote failures yield no value; recoverable failures also move
// the identity to a fresh proxy. Anything else is logged and counted as
// unexpected.
func settle[T any](ctx context.Context, s *Service, id *domain.Identity, err error) race.Outcome[T] {
	if errors.Is(err, domain.ErrNotFound) {
		return race.NoValue[T]()
	}
	if kind := domain.FailureKindOf(err); kind.Recoverable() {
		s.logger.Warn(fmt.Sprintf("identity %s hit a %s failure, rebinding: %v", id.ID, kind, err))
		s.identities.Rebind(ctx, id)
		return race.NoValue[T]()
	}
	s.logger.Error(zerr.With(zerr.Wrap(err, "unexpected attempt failure"), "identity", id.ID))
	return race.Failed[T](err)
}
