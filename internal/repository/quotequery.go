package repository

import (
	"strings"

	"github.com/quotekeep/quotekeep-go/internal/model"
)

// sortColumns whitelists client-supplied sort fields. Anything outside the
// map falls back to creation time; the sort field is interpolated into the
// ORDER BY clause and must never come straight from the request.
var sortColumns = map[string]string{
	"createdAt":  "q.created_at",
	"updatedAt":  "q.updated_at",
	"author":     "q.author",
	"text":       "q.text",
	"collection": "q.collection",
}

// buildListQuery translates normalized listing parameters into the WHERE
// clause, its arguments, the ORDER BY clause and the page window shared by
// the page query and the count query.
//
// The owner constraint is always the first condition and cannot be disabled
// by any parameter combination.
func buildListQuery(userID int64, p model.ListParams) (where string, args []any, orderBy string, limit, offset int) {
	conds := []string{"q.user_id = ?"}
	args = append(args, userID)

	if p.Search != "" {
		needle := "%" + strings.ToLower(p.Search) + "%"
		conds = append(conds, "(LOWER(q.text) LIKE ? OR LOWER(q.author) LIKE ?)")
		args = append(args, needle, needle)
	}

	if p.Collection != "" {
		conds = append(conds, "q.collection = ?")
		args = append(args, p.Collection)
	}

	if len(p.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(p.Tags)), ",")
		conds = append(conds, "EXISTS (SELECT 1 FROM quote_tags qt WHERE qt.quote_id = q.id AND qt.tag IN ("+placeholders+"))")
		for _, tag := range p.Tags {
			args = append(args, tag)
		}
	}

	col, ok := sortColumns[p.SortBy]
	if !ok {
		col = sortColumns[model.DefaultSortField]
	}
	dir := "ASC"
	if p.SortOrder == "desc" {
		dir = "DESC"
	}
	// Row id as tiebreaker keeps page windows deterministic.
	orderBy = col + " " + dir + ", q.id " + dir

	return strings.Join(conds, " AND "), args, orderBy, p.Limit, (p.Page - 1) * p.Limit
}
