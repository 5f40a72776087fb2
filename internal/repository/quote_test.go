package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotekeep/quotekeep-go/internal/model"
)

var seedSeq int

func seedQuote(t *testing.T, repo *QuoteRepository, userID int64, text, author, collection string, tags []string) *model.Quote {
	t.Helper()
	seedSeq++

	q := &model.Quote{
		QuoteID:    fmt.Sprintf("00000000-0000-0000-0000-%012d", seedSeq),
		UserID:     userID,
		Text:       text,
		Author:     author,
		Collection: collection,
		Tags:       tags,
	}
	require.NoError(t, repo.Create(context.Background(), q))
	return q
}

func setCreatedAt(t *testing.T, db *sql.DB, quoteID string, ts time.Time) {
	t.Helper()
	_, err := db.Exec(`UPDATE quotes SET created_at = ? WHERE quote_id = ?`, ts, quoteID)
	require.NoError(t, err)
}

func quoteIDs(quotes []model.Quote) []string {
	ids := make([]string, len(quotes))
	for i, q := range quotes {
		ids[i] = q.QuoteID
	}
	return ids
}

func TestQuoteCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	created := seedQuote(t, repo, 1, "Know thyself", "Socrates", "Stoics", []string{"wisdom", "self"})

	got, err := repo.GetByQuoteID(ctx, 1, created.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, "Know thyself", got.Text)
	assert.Equal(t, "Socrates", got.Author)
	assert.Equal(t, "Stoics", got.Collection)
	assert.Equal(t, []string{"wisdom", "self"}, got.Tags, "tag order must survive the roundtrip")
}

func TestQuoteGetWrongOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	created := seedQuote(t, repo, 1, "mine", "Me", "General", nil)

	_, err := repo.GetByQuoteID(ctx, 2, created.QuoteID)
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestQuoteListOwnerScoping(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	seedQuote(t, repo, 1, "alpha", "A", "General", nil)
	seedQuote(t, repo, 1, "beta", "B", "General", nil)
	other := seedQuote(t, repo, 2, "gamma", "C", "General", nil)

	quotes, total, err := repo.List(ctx, 1, normalized(model.ListParams{}))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.NotContains(t, quoteIDs(quotes), other.QuoteID)
	for _, q := range quotes {
		assert.Equal(t, int64(1), q.UserID)
	}
}

func TestQuoteListSearchCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	byText := seedQuote(t, repo, 1, "Love conquers all", "Virgil", "General", nil)
	byAuthor := seedQuote(t, repo, 1, "Carpe diem", "Lovelace", "General", nil)
	seedQuote(t, repo, 1, "Know thyself", "Socrates", "General", nil)

	quotes, total, err := repo.List(ctx, 1, normalized(model.ListParams{Search: "love"}))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{byText.QuoteID, byAuthor.QuoteID}, quoteIDs(quotes))
}

func TestQuoteListCollectionFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	stoic := seedQuote(t, repo, 1, "Amor fati", "Nietzsche", "Stoics", nil)
	seedQuote(t, repo, 1, "Carpe diem", "Horace", "General", nil)

	quotes, total, err := repo.List(ctx, 1, normalized(model.ListParams{Collection: "Stoics"}))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{stoic.QuoteID}, quoteIDs(quotes))
}

func TestQuoteListTagFilterIntersects(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	ab := seedQuote(t, repo, 1, "one", "A", "General", []string{"a", "b"})
	bc := seedQuote(t, repo, 1, "two", "B", "General", []string{"b", "c"})
	seedQuote(t, repo, 1, "three", "C", "General", []string{"d"})

	// A quote matches when at least one of its tags is requested.
	quotes, total, err := repo.List(ctx, 1, normalized(model.ListParams{Tags: []string{"a", "c"}}))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{ab.QuoteID, bc.QuoteID}, quoteIDs(quotes))
}

func TestQuoteListSortOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	oldest := seedQuote(t, repo, 1, "oldest", "A", "General", nil)
	middle := seedQuote(t, repo, 1, "middle", "B", "General", nil)
	newest := seedQuote(t, repo, 1, "newest", "C", "General", nil)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	setCreatedAt(t, db, oldest.QuoteID, base)
	setCreatedAt(t, db, middle.QuoteID, base.AddDate(0, 0, 1))
	setCreatedAt(t, db, newest.QuoteID, base.AddDate(0, 0, 2))

	// Default sort: newest first.
	quotes, _, err := repo.List(ctx, 1, normalized(model.ListParams{}))
	require.NoError(t, err)
	assert.Equal(t, []string{newest.QuoteID, middle.QuoteID, oldest.QuoteID}, quoteIDs(quotes))

	// Ascending: oldest first.
	quotes, _, err = repo.List(ctx, 1, normalized(model.ListParams{SortOrder: "asc"}))
	require.NoError(t, err)
	assert.Equal(t, []string{oldest.QuoteID, middle.QuoteID, newest.QuoteID}, quoteIDs(quotes))

	// Sort by author descending.
	quotes, _, err = repo.List(ctx, 1, normalized(model.ListParams{SortBy: "author", SortOrder: "desc"}))
	require.NoError(t, err)
	assert.Equal(t, []string{newest.QuoteID, middle.QuoteID, oldest.QuoteID}, quoteIDs(quotes))
}

func TestQuoteListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var all []string
	for i := 0; i < 5; i++ {
		q := seedQuote(t, repo, 1, fmt.Sprintf("quote %d", i), "A", "General", nil)
		setCreatedAt(t, db, q.QuoteID, base.AddDate(0, 0, i))
		all = append(all, q.QuoteID)
	}

	// Ascending, limit 2, page 2 → third and fourth quotes; total is unpaged.
	quotes, total, err := repo.List(ctx, 1, normalized(model.ListParams{SortOrder: "asc", Page: 2, Limit: 2}))
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{all[2], all[3]}, quoteIDs(quotes))

	// Page past the end: empty page, same total.
	quotes, total, err = repo.List(ctx, 1, normalized(model.ListParams{SortOrder: "asc", Page: 4, Limit: 2}))
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, quotes)
}

func TestQuoteStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	seedQuote(t, repo, 1, "one", "Seneca", "Stoics", []string{"a", "b"})
	seedQuote(t, repo, 1, "two", "Seneca", "Stoics", []string{"b", "c"})
	seedQuote(t, repo, 1, "three", "Epictetus", "General", nil)
	seedQuote(t, repo, 2, "other user", "Other", "Other", []string{"x", "y", "z"})

	stats, err := repo.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalQuotes)
	assert.Equal(t, 2, stats.UniqueAuthors)
	// Union of {a,b} and {b,c}, not the number of tag lists.
	assert.Equal(t, 3, stats.UniqueTags)
	assert.Equal(t, 2, stats.UniqueCollections)
}

func TestQuoteStatsEmptyUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)

	stats, err := repo.Stats(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStats{}, stats)
}

func TestQuoteDistinctTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	seedQuote(t, repo, 1, "one", "A", "General", []string{"zeta", "alpha"})
	seedQuote(t, repo, 1, "two", "B", "General", []string{"alpha", "mid"})
	seedQuote(t, repo, 2, "other", "C", "General", []string{"foreign"})

	tags, err := repo.DistinctTags(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, tags)
}

func TestQuoteUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	created := seedQuote(t, repo, 1, "old text", "Old Author", "General", []string{"old"})

	err := repo.Update(ctx, &model.Quote{
		QuoteID:    created.QuoteID,
		UserID:     1,
		Text:       "new text",
		Author:     "New Author",
		Collection: "Stoics",
		Tags:       []string{"fresh", "new"},
	})
	require.NoError(t, err)

	got, err := repo.GetByQuoteID(ctx, 1, created.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, "new text", got.Text)
	assert.Equal(t, "New Author", got.Author)
	assert.Equal(t, "Stoics", got.Collection)
	assert.Equal(t, []string{"fresh", "new"}, got.Tags, "old tag rows must be gone")
}

func TestQuoteUpdateWrongOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	created := seedQuote(t, repo, 1, "text", "Author", "General", nil)

	err := repo.Update(ctx, &model.Quote{
		QuoteID: created.QuoteID,
		UserID:  2,
		Text:    "hijacked",
		Author:  "Mallory",
	})
	require.ErrorIs(t, err, ErrQuoteNotFound)

	got, err := repo.GetByQuoteID(ctx, 1, created.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, "text", got.Text)
}

func TestQuoteDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	created := seedQuote(t, repo, 1, "text", "Author", "General", []string{"a"})

	require.NoError(t, repo.Delete(ctx, 1, created.QuoteID))

	_, err := repo.GetByQuoteID(ctx, 1, created.QuoteID)
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	// Tag rows go with the quote.
	stats, err := repo.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, stats.UniqueTags)

	assert.ErrorIs(t, repo.Delete(ctx, 1, created.QuoteID), ErrQuoteNotFound)
}

func TestQuoteDeleteWrongOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	created := seedQuote(t, repo, 1, "text", "Author", "General", nil)

	err := repo.Delete(ctx, 2, created.QuoteID)
	require.ErrorIs(t, err, ErrQuoteNotFound)

	_, err = repo.GetByQuoteID(ctx, 1, created.QuoteID)
	assert.NoError(t, err)
}
