package ports

import (
	"context"

	"go.trai.ch/herd/internal/core/domain"
)

// RemoteClient issues calls to the remote platform on behalf of an identity.
// Failures are *domain.RemoteError values carrying a domain.FailureKind; an
// authoritative "does not exist" answer wraps domain.ErrNotFound.
//
//go:generate mockgen -source=remote.go -destination=mocks/mock_remote.go -package=mocks
type RemoteClient interface {
	FetchProfile(ctx context.Context, id *domain.Identity, userID string) (*domain.Profile, error)
	FetchPosts(ctx context.Context, id *domain.Identity, userID string, page domain.Page) ([]domain.Post, error)
	FetchLikedPosts(ctx context.Context, id *domain.Identity, userID string, page domain.Page) ([]domain.Post, error)
	FetchPost(ctx context.Context, id *domain.Identity, postID string) (*domain.Post, error)
	// ResolveUsername returns the user id behind a public username.
	ResolveUsername(ctx context.Context, id *domain.Identity, username string) (string, error)
	// ResolveShortLink follows a short link and returns its destination URL.
	ResolveShortLink(ctx context.Context, id *domain.Identity, link string) (string, error)
	// BuildRequest renders the request for op without sending it.
	BuildRequest(id *domain.Identity, op domain.Operation) (*domain.RequestInfo, error)
}

// IdentityFactory registers new identities with the remote platform.
type IdentityFactory interface {
	// Register creates a new identity whose registration traffic goes through proxy.
	Register(ctx context.Context, proxy *domain.Proxy) (*domain.Identity, error)
}
