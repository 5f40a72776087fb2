package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/quotekeep/quotekeep-go/internal/model"
	"github.com/quotekeep/quotekeep-go/internal/repository"
)

var ErrQuoteNotFound = errors.New("quote not found")

// QuoteService handles quote business logic.
type QuoteService struct {
	quotes repository.QuoteStore
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(quotes repository.QuoteStore) *QuoteService {
	return &QuoteService{quotes: quotes}
}

// Create stores a new quote for the user.
func (s *QuoteService) Create(ctx context.Context, userID int64, req model.QuoteRequest) (model.QuoteResponse, error) {
	if err := checkStruct(req); err != nil {
		return model.QuoteResponse{}, err
	}

	collection := strings.TrimSpace(req.Collection)
	if collection == "" {
		collection = model.DefaultCollection
	}

	quote := &model.Quote{
		QuoteID:    uuid.NewString(),
		UserID:     userID,
		Text:       req.Text,
		Author:     req.Author,
		Tags:       cleanTags(req.Tags),
		Collection: collection,
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		return model.QuoteResponse{}, err
	}

	return quoteToResponse(quote), nil
}

// Update replaces a quote's content. The store only matches quotes owned by
// userID, so updating another user's quote reports not-found.
func (s *QuoteService) Update(ctx context.Context, userID int64, quoteID string, req model.QuoteRequest) (model.QuoteResponse, error) {
	if err := checkStruct(req); err != nil {
		return model.QuoteResponse{}, err
	}

	collection := strings.TrimSpace(req.Collection)
	if collection == "" {
		collection = model.DefaultCollection
	}

	quote := &model.Quote{
		QuoteID:    quoteID,
		UserID:     userID,
		Text:       req.Text,
		Author:     req.Author,
		Tags:       cleanTags(req.Tags),
		Collection: collection,
	}

	if err := s.quotes.Update(ctx, quote); err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			return model.QuoteResponse{}, ErrQuoteNotFound
		}
		return model.QuoteResponse{}, err
	}

	updated, err := s.quotes.GetByQuoteID(ctx, userID, quoteID)
	if err != nil {
		return model.QuoteResponse{}, err
	}

	return quoteToResponse(updated), nil
}

// Delete removes a quote owned by the user.
func (s *QuoteService) Delete(ctx context.Context, userID int64, quoteID string) error {
	err := s.quotes.Delete(ctx, userID, quoteID)
	if errors.Is(err, repository.ErrQuoteNotFound) {
		return ErrQuoteNotFound
	}
	return err
}

// List returns one page of the user's quotes with pagination metadata.
func (s *QuoteService) List(ctx context.Context, userID int64, params model.ListParams) (model.QuoteListResponse, error) {
	params.Normalize()

	quotes, total, err := s.quotes.List(ctx, userID, params)
	if err != nil {
		return model.QuoteListResponse{}, err
	}

	responses := make([]model.QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = quoteToResponse(&quotes[i])
	}

	return model.QuoteListResponse{
		Quotes: responses,
		Pagination: model.Pagination{
			Total: total,
			Page:  params.Page,
			Pages: (total + params.Limit - 1) / params.Limit,
			Limit: params.Limit,
		},
	}, nil
}

// Stats returns the user's aggregate counts. A user with no quotes gets the
// zero-valued stats, not an error.
func (s *QuoteService) Stats(ctx context.Context, userID int64) (model.QuoteStats, error) {
	return s.quotes.Stats(ctx, userID)
}

// Tags returns the user's distinct tags.
func (s *QuoteService) Tags(ctx context.Context, userID int64) ([]string, error) {
	tags, err := s.quotes.DistinctTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// cleanTags trims whitespace, drops empties and deduplicates while keeping
// first-occurrence order.
func cleanTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

func quoteToResponse(q *model.Quote) model.QuoteResponse {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.QuoteResponse{
		ID:         q.QuoteID,
		Text:       q.Text,
		Author:     q.Author,
		Tags:       tags,
		Collection: q.Collection,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
}
