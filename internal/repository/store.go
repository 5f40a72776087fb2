package repository

import (
	"context"

	"github.com/quotekeep/quotekeep-go/internal/model"
)

// UserStore provides persistence for user accounts.
type UserStore interface {
	// Create inserts a new user and sets the generated ID.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// QuoteStore provides owner-scoped persistence for quotes. Every method that
// touches an existing quote takes the owner's user ID; a quote belonging to a
// different user behaves exactly like a missing one.
type QuoteStore interface {
	// Create inserts a quote and its tags.
	Create(ctx context.Context, quote *model.Quote) error
	// Update replaces a quote's text, author, collection and tags.
	Update(ctx context.Context, quote *model.Quote) error
	// Delete removes a quote and its tags.
	Delete(ctx context.Context, userID int64, quoteID string) error
	// GetByQuoteID retrieves a single quote by its public ID.
	GetByQuoteID(ctx context.Context, userID int64, quoteID string) (*model.Quote, error)
	// List returns one page of matching quotes plus the unpaged total.
	List(ctx context.Context, userID int64, params model.ListParams) ([]model.Quote, int, error)
	// Stats computes aggregate counts across all of the user's quotes.
	Stats(ctx context.Context, userID int64) (model.QuoteStats, error)
	// DistinctTags returns the user's tag vocabulary in sorted order.
	DistinctTags(ctx context.Context, userID int64) ([]string, error)
}
