package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFound is returned when every attempt finished without an accepted value.
	ErrNotFound = zerr.New("item not found")

	// ErrExhausted is returned when every attempt failed with an unexpected error.
	ErrExhausted = zerr.New("multiple retries failed")

	// ErrPoolEmpty is returned by checkout when the identity pool holds no identities.
	ErrPoolEmpty = zerr.New("identity pool is empty")

	// ErrIdentityCreationFailed is reported when an identity could not be created within the attempt bound.
	ErrIdentityCreationFailed = zerr.New("failed to create identity")

	// ErrConfigNotFound is returned when an explicitly requested configuration file does not exist.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is out of range or malformed.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrStoreOpenFailed is returned when the persistent store cannot be opened or migrated.
	ErrStoreOpenFailed = zerr.New("failed to open store")

	// ErrStoreReadFailed is returned when a store query fails.
	ErrStoreReadFailed = zerr.New("failed to read from store")

	// ErrStoreWriteFailed is returned when a store write fails.
	ErrStoreWriteFailed = zerr.New("failed to write to store")

	// ErrProxySourceFailed is returned when the proxy source cannot supply an endpoint.
	ErrProxySourceFailed = zerr.New("failed to obtain proxy")

	// ErrNoProxies is returned when a proxy source has no endpoints configured.
	ErrNoProxies = zerr.New("no proxies available")

	// ErrInvalidProxy is returned when a proxy line cannot be parsed.
	ErrInvalidProxy = zerr.New("invalid proxy endpoint")

	// ErrInvalidLink is returned when a post link does not carry a post id.
	ErrInvalidLink = zerr.New("invalid post link")

	// ErrNoIdentifier is returned when a post request carries no usable identifier form.
	ErrNoIdentifier = zerr.New("no post identifier given")

	// ErrMissingUserID is returned when a request needs a user id and none was given.
	ErrMissingUserID = zerr.New("missing user id")

	// ErrMissingUsername is returned when a request needs a username and none was given.
	ErrMissingUsername = zerr.New("missing username")

	// ErrExpiryNotFound is returned when a media URL carries no expiry parameter.
	ErrExpiryNotFound = zerr.New("media url carries no expiry")
)
