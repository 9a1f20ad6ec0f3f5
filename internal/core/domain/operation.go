package domain

// OperationKind names a remote call.
type OperationKind string

const (
	OpProfile     OperationKind = "profile"
	OpPosts       OperationKind = "posts"
	OpLikedPosts  OperationKind = "liked_posts"
	OpPost        OperationKind = "post"
	OpResolveUser OperationKind = "resolve_user"
	OpShortLink   OperationKind = "short_link"
	OpRegister    OperationKind = "register"
)

// Operation describes one remote call independent of the identity issuing it.
type Operation struct {
	Kind     OperationKind
	UserID   string
	PostID   string
	Username string
	Link     string
	Page     Page
}

// PageSize is the fixed number of items the remote returns per page.
const PageSize = 20

// Page addresses one slice of a paged listing.
type Page struct {
	Cursor int
	Count  int
}

// Pages splits a request for n items into full pages of PageSize followed by
// one partial page for the remainder, if any.
func Pages(n int) []Page {
	if n <= 0 {
		return nil
	}
	full := n / PageSize
	pages := make([]Page, 0, full+1)
	for i := range full {
		pages = append(pages, Page{Cursor: i * PageSize, Count: PageSize})
	}
	if rest := n % PageSize; rest != 0 {
		pages = append(pages, Page{Cursor: full * PageSize, Count: rest})
	}
	return pages
}
