package utils

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a zero-indexed pagination window.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return p.Number * p.Size
}

// ParsePage reads page/size query parameters, clamping to sane bounds.
func ParsePage(r *http.Request) Page {
	page := Page{Number: 0, Size: DefaultPageSize}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page.Number = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page.Size = n
		}
	}
	if page.Size > MaxPageSize {
		page.Size = MaxPageSize
	}
	return page
}

// Paginated wraps a page of results with its total count.
type Paginated struct {
	Items interface{} `json:"items"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Total int         `json:"total"`
}

func NewPaginated(items interface{}, page Page, total int) Paginated {
	return Paginated{Items: items, Page: page.Number, Size: page.Size, Total: total}
}
