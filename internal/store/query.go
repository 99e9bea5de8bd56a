package store

import (
	"strings"

	"github.com/uptrace/bun"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListQuery carries the pagination/filter parameters accepted by every
// listing endpoint: page, limit, free-text search and sort key. Sort keys
// use the JSON field name, prefixed with "-" for descending order.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

// Normalize applies defaults and clamps out-of-range values.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

// Offset returns the row offset for the normalized page/limit pair.
func (q ListQuery) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.Limit
}

// Apply attaches search, ordering and pagination to a select query.
// searchColumns are the database columns matched (case-insensitively)
// against the search term; sortColumns maps exposed sort keys to database
// columns. Unknown sort keys fall back to defaultSort.
func (q ListQuery) Apply(sel *bun.SelectQuery, searchColumns []string, sortColumns map[string]string, defaultSort string) *bun.SelectQuery {
	n := q.Normalize()

	sel = ApplySearch(sel, n.Search, searchColumns)

	order := defaultSort
	if n.Sort != "" {
		key := strings.TrimPrefix(n.Sort, "-")
		if col, ok := sortColumns[key]; ok {
			order = col + " ASC"
			if strings.HasPrefix(n.Sort, "-") {
				order = col + " DESC"
			}
		}
	}
	if order != "" {
		sel = sel.OrderExpr(order)
	}

	return sel.Limit(n.Limit).Offset(n.Offset())
}

// ApplySearch adds a case-insensitive LIKE filter over the given columns.
func ApplySearch(sel *bun.SelectQuery, term string, columns []string) *bun.SelectQuery {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return sel
	}

	pattern := "%" + strings.ToLower(term) + "%"
	return sel.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
		for i, col := range columns {
			if i == 0 {
				g = g.Where("lower("+col+") LIKE ?", pattern)
			} else {
				g = g.WhereOr("lower("+col+") LIKE ?", pattern)
			}
		}
		return g
	})
}

// Pagination is the envelope block echoed back with every listing.
type Pagination struct {
	TotalDocuments int  `json:"totalDocuments"`
	TotalPages     int  `json:"totalPages"`
	CurrentPage    int  `json:"currentPage"`
	PreviousPage   *int `json:"previousPage"`
	NextPage       *int `json:"nextPage"`
}

// NewPagination computes the pagination block for a result count.
func NewPagination(total int, q ListQuery) Pagination {
	n := q.Normalize()

	totalPages := total / n.Limit
	if total%n.Limit != 0 {
		totalPages++
	}

	p := Pagination{
		TotalDocuments: total,
		TotalPages:     totalPages,
		CurrentPage:    n.Page,
	}

	if n.Page > 1 {
		prev := n.Page - 1
		p.PreviousPage = &prev
	}
	if n.Page < totalPages {
		next := n.Page + 1
		p.NextPage = &next
	}

	return p
}
