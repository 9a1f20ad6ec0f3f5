package domain

import "time"

// EntityKind names a table of cached rich records.
type EntityKind string

const (
	// KindProfile holds profiles keyed by user id.
	KindProfile EntityKind = "profile"
	// KindPost holds posts keyed by post id and owned by the author's user id.
	KindPost EntityKind = "post"
)

// Record is the stored form of a cached entity.
type Record struct {
	Kind       EntityKind
	ID         string
	Owner      string
	SortKey    int64
	Payload    []byte
	InsertedAt time.Time
	// ExpiresAt is the unix time the entity's signed media URLs stop working, 0 if unknown.
	ExpiresAt int64
}

// Profile describes an account on the remote platform.
type Profile struct {
	UserID    string `json:"sid"`
	LoginName string `json:"login_name"`
	Name      string `json:"name"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
	Likes     int64  `json:"likes"`
	Avatar    string `json:"avatar"`
	// Secret marks an access-restricted account. The upstream sometimes
	// reports it for public accounts, so a single observation is ambiguous.
	Secret bool `json:"secret"`
}

// EntityID implements the cache entity contract.
func (p *Profile) EntityID() string { return p.UserID }

// EntityOwner implements the cache entity contract.
func (p *Profile) EntityOwner() string { return p.UserID }

// EntitySortKey implements the cache entity contract.
func (p *Profile) EntitySortKey() int64 { return 0 }

// MediaURL returns the URL whose signature carries the record's expiry.
func (p *Profile) MediaURL() string { return p.Avatar }

// Post describes a single published item.
type Post struct {
	ID                 string   `json:"aweme_id"`
	Cover              string   `json:"cover"`
	AnimatedCover      string   `json:"animated_cover"`
	DownloadLinks      []string `json:"download_links"`
	PlayLinks          []string `json:"play_links"`
	ShareLink          string   `json:"share_link"`
	WebLink            string   `json:"web_link"`
	ShortLink          string   `json:"short_link"`
	CommentCount       int64    `json:"comment_count"`
	DiggCount          int64    `json:"digg_count"`
	DownloadCount      int64    `json:"download_count"`
	ForwardCount       int64    `json:"forward_count"`
	LoseCommentCount   int64    `json:"lose_comment_count"`
	LoseCount          int64    `json:"lose_count"`
	PlayCount          int64    `json:"play_count"`
	ShareCount         int64    `json:"share_count"`
	WhatsappShareCount int64    `json:"whatsapp_share_count"`
	Description        string   `json:"description"`
	AuthorID           string   `json:"author_sec_user_id"`
	CreateTime         int64    `json:"create_time"`
}

// EntityID implements the cache entity contract.
func (p *Post) EntityID() string { return p.ID }

// EntityOwner implements the cache entity contract.
func (p *Post) EntityOwner() string { return p.AuthorID }

// EntitySortKey orders an author's posts newest first.
func (p *Post) EntitySortKey() int64 { return p.CreateTime }

// MediaURL returns the URL whose signature carries the record's expiry.
func (p *Post) MediaURL() string { return p.Cover }

// RequestInfo is a fully built remote request that was not sent.
type RequestInfo struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}
