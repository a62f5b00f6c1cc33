package models

import "strings"

// ListRequest carries a search term and 1-based page for list queries.
// A blank search matches every row.
type ListRequest struct {
	Search string
	Page   int
	Limit  int
}

func (r ListRequest) Offset() int {
	if r.Page <= 1 || r.Limit <= 0 {
		return 0
	}
	return (r.Page - 1) * r.Limit
}

// Matches reports whether value contains the search term, ignoring case.
func (r ListRequest) Matches(value string) bool {
	q := strings.TrimSpace(r.Search)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(q))
}

type List[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// Paginate fills Page and Pages from the request and the total Count.
func (l *List[T]) Paginate(req ListRequest) {
	l.Page = req.Page
	if l.Page <= 0 {
		l.Page = 1
	}
	l.Pages = 1
	if req.Limit > 0 && l.Count > 0 {
		l.Pages = (l.Count + req.Limit - 1) / req.Limit
	}
}

type Stats struct {
	Drivers       int `json:"num_drivers"`
	Cars          int `json:"num_cars"`
	Manufacturers int `json:"num_manufacturers"`
}
