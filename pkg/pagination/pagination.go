package pagination

import "strconv"

const (
	// DefaultPerPage is the standard page size when a limit is not provided.
	DefaultPerPage = 25
	// MaxPerPage caps how many rows any listing can request.
	MaxPerPage = 100
)

// Params holds page-number pagination inputs parsed from a request.
type Params struct {
	Page    int
	PerPage int
	Search  string
}

// Result is the upstream listing envelope: Laravel-style paginate output.
type Result[T any] struct {
	Data        []T `json:"data"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
	CurrentPage int `json:"current_page"`
}

// Normalize clamps the page to >= 1 and the per-page size into range.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Query renders the params as upstream query values.
func (p Params) Query() map[string]string {
	p = p.Normalize()
	q := map[string]string{
		"page":     strconv.Itoa(p.Page),
		"per_page": strconv.Itoa(p.PerPage),
	}
	if p.Search != "" {
		q["search"] = p.Search
	}
	return q
}

// PageCount returns how many pages a total occupies, never less than 1.
func PageCount(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 1
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}

// Slice cuts one page out of a locally filtered set. Used by the legacy
// client-side strategy for small fixed resources.
func Slice[T any](rows []T, page, perPage int) []T {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(rows) {
		return nil
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Paginate wraps a locally filtered set into the same envelope the upstream
// server-side strategy produces, so templates render one shape.
func Paginate[T any](rows []T, page, perPage int) Result[T] {
	if page < 1 {
		page = 1
	}
	return Result[T]{
		Data:        Slice(rows, page, perPage),
		Total:       len(rows),
		LastPage:    PageCount(len(rows), perPage),
		CurrentPage: page,
	}
}
