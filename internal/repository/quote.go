package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/quotekeep/quotekeep-go/internal/model"
)

var ErrQuoteNotFound = errors.New("quote not found")

// QuoteRepository handles quote persistence operations.
type QuoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new QuoteRepository.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

const quoteColumns = "q.id, q.quote_id, q.user_id, q.text, q.author, q.collection, q.created_at, q.updated_at"

// Create inserts a quote and its tags in one transaction.
func (r *QuoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO quotes (quote_id, user_id, text, author, collection, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		quote.QuoteID, quote.UserID, quote.Text, quote.Author, quote.Collection, now, now,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	if err := insertTags(ctx, tx, id, quote.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	quote.ID = id
	quote.CreatedAt = now
	quote.UpdatedAt = now
	return nil
}

// Update replaces a quote's content and rewrites its tag rows. The quote is
// addressed by owner and public ID; no match means ErrQuoteNotFound.
func (r *QuoteRepository) Update(ctx context.Context, quote *model.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM quotes WHERE user_id = ? AND quote_id = ?`,
		quote.UserID, quote.QuoteID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuoteNotFound
		}
		return err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE quotes SET text = ?, author = ?, collection = ?, updated_at = ? WHERE id = ?`,
		quote.Text, quote.Author, quote.Collection, now, id,
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_tags WHERE quote_id = ?`, id); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, id, quote.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	quote.ID = id
	quote.UpdatedAt = now
	return nil
}

// Delete removes a quote and its tags, scoped to the owner.
func (r *QuoteRepository) Delete(ctx context.Context, userID int64, quoteID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM quotes WHERE user_id = ? AND quote_id = ?`,
		userID, quoteID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuoteNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_tags WHERE quote_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByQuoteID retrieves a single quote with its tags.
func (r *QuoteRepository) GetByQuoteID(ctx context.Context, userID int64, quoteID string) (*model.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes q WHERE q.user_id = ? AND q.quote_id = ?`

	quote := &model.Quote{}
	err := r.db.QueryRowContext(ctx, query, userID, quoteID).Scan(
		&quote.ID, &quote.QuoteID, &quote.UserID, &quote.Text, &quote.Author,
		&quote.Collection, &quote.CreatedAt, &quote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}

	tags, err := r.loadTags(ctx, []int64{quote.ID})
	if err != nil {
		return nil, err
	}
	quote.Tags = tags[quote.ID]

	return quote, nil
}

// List returns one page of quotes matching the parameters plus the total
// match count from an independent, unpaged query.
func (r *QuoteRepository) List(ctx context.Context, userID int64, params model.ListParams) ([]model.Quote, int, error) {
	where, args, orderBy, limit, offset := buildListQuery(userID, params)

	query := `SELECT ` + quoteColumns + ` FROM quotes q WHERE ` + where +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quotes []model.Quote
	var ids []int64
	for rows.Next() {
		var q model.Quote
		if err := rows.Scan(
			&q.ID, &q.QuoteID, &q.UserID, &q.Text, &q.Author,
			&q.Collection, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes q WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	tags, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range quotes {
		quotes[i].Tags = tags[quotes[i].ID]
	}

	return quotes, total, nil
}

// Stats computes the user's aggregate counts store-side. A user with no
// quotes gets all zeros from the COUNT aggregates, never an error.
func (r *QuoteRepository) Stats(ctx context.Context, userID int64) (model.QuoteStats, error) {
	var stats model.QuoteStats

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT q.author), COUNT(DISTINCT q.collection)
		FROM quotes q WHERE q.user_id = ?`,
		userID,
	).Scan(&stats.TotalQuotes, &stats.UniqueAuthors, &stats.UniqueCollections)
	if err != nil {
		return model.QuoteStats{}, err
	}

	// Tag rows are one-per-tag already, so DISTINCT over the join is the
	// flattened union across all of the user's quotes.
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT qt.tag) FROM quote_tags qt
		JOIN quotes q ON q.id = qt.quote_id WHERE q.user_id = ?`,
		userID,
	).Scan(&stats.UniqueTags)
	if err != nil {
		return model.QuoteStats{}, err
	}

	return stats, nil
}

// DistinctTags returns the user's distinct tags in alphabetical order.
func (r *QuoteRepository) DistinctTags(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT qt.tag FROM quote_tags qt
		JOIN quotes q ON q.id = qt.quote_id WHERE q.user_id = ? ORDER BY qt.tag`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// loadTags fetches tag rows for the given internal quote ids, preserving
// each quote's tag order.
func (r *QuoteRepository) loadTags(ctx context.Context, ids []int64) (map[int64][]string, error) {
	tags := make(map[int64][]string, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT quote_id, tag FROM quote_tags WHERE quote_id IN (`+placeholders+`) ORDER BY quote_id, position`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		tags[id] = append(tags[id], tag)
	}

	return tags, rows.Err()
}

func insertTags(ctx context.Context, tx *sql.Tx, quoteID int64, tags []string) error {
	for i, tag := range tags {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO quote_tags (quote_id, position, tag) VALUES (?, ?, ?)`,
			quoteID, i, tag,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
