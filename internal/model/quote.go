package model

import "time"

// Quote represents a quote in the database. QuoteID is the public identity
// used in URLs; ID is the internal row key referenced by quote_tags.
type Quote struct {
	ID         int64
	QuoteID    string
	UserID     int64
	Text       string
	Author     string
	Tags       []string
	Collection string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuoteRequest represents a quote create or update request.
type QuoteRequest struct {
	Text       string   `json:"text" validate:"required"`
	Author     string   `json:"author" validate:"required"`
	Tags       []string `json:"tags"`
	Collection string   `json:"collection"`
}

// QuoteResponse represents a quote in API responses.
type QuoteResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	Collection string    `json:"collection"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// QuoteListResponse is the payload of GET /api/quotes.
type QuoteListResponse struct {
	Quotes     []QuoteResponse `json:"quotes"`
	Pagination Pagination      `json:"pagination"`
}

// QuoteStats holds per-user aggregate counts. The zero value is the correct
// response for a user with no quotes.
type QuoteStats struct {
	TotalQuotes       int `json:"totalQuotes"`
	UniqueAuthors     int `json:"uniqueAuthors"`
	UniqueTags        int `json:"uniqueTags"`
	UniqueCollections int `json:"uniqueCollections"`
}

// DefaultCollection is assigned to quotes created without a collection name.
const DefaultCollection = "General"

const (
	// DefaultPageSize is the listing page size when the client sends none.
	DefaultPageSize = 9
	// MaxPageSize caps the listing page size.
	MaxPageSize = 100
	// DefaultSortField orders listings by creation time unless overridden.
	DefaultSortField = "createdAt"
)

// ListParams are the typed, normalized listing parameters parsed from the
// query string of GET /api/quotes.
type ListParams struct {
	Search     string
	Collection string
	Tags       []string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// Normalize clamps out-of-range pagination values and fills in defaults.
// Page and limit coming straight from the query string may be zero or
// negative; they never reach the store unclamped.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortField
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
}
