package domain

// DefaultMaxResults is the default page size when none is specified.
const DefaultMaxResults = 100

// MaxMaxResults is the maximum allowed page size.
const MaxMaxResults = 1000

// PageRequest holds pagination parameters for list operations.
type PageRequest struct {
	MaxResults int
	PageToken  string // opaque token returned by the previous page
}

// Limit returns the effective page size, clamped to [1, MaxMaxResults].
func (p PageRequest) Limit() int {
	if p.MaxResults <= 0 {
		return DefaultMaxResults
	}
	if p.MaxResults > MaxMaxResults {
		return MaxMaxResults
	}
	return p.MaxResults
}

// Page is one page of a listing. An empty NextPageToken marks the last page.
type Page[T any] struct {
	Items         []T
	NextPageToken string
}
