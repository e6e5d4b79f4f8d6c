package search

import (
	"context"
	"fmt"
	"math"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Paginator holds the configured page-size bounds.
type Paginator struct {
	defaultSize int
	maxSize     int
}

// NewPaginator returns a Paginator. Non-positive arguments fall back to the
// package defaults and defaultSize is capped at maxSize.
func NewPaginator(defaultSize, maxSize int) Paginator {
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	return Paginator{defaultSize: defaultSize, maxSize: maxSize}
}

// DefaultPageSize is used by callers when the client sent no page size.
func (p Paginator) DefaultPageSize() int { return p.defaultSize }

// MaxPageSize is the upper page-size bound.
func (p Paginator) MaxPageSize() int { return p.maxSize }

// Window clamps page to >= 1 and size to [1, max], and returns the offset of
// the first item of that page.
func (p Paginator) Window(page, size int) (int, int, int64) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if size > p.maxSize {
		size = p.maxSize
	}
	offset := int64(page-1) * int64(size)
	return page, size, offset
}

// Paginate fetches the window described by req within scope from src.
// Pages past the end yield empty Items and the real TotalCount.
func Paginate[T any](ctx context.Context, p Paginator, src Source[T], req Request, scope Scope) (Page[T], error) {
	page, size, offset := p.Window(req.Page, req.PageSize)

	kt := req.KeywordType
	if kt == "" {
		kt = KeywordSubject
	}

	items, total, err := src.ListPage(ctx, Query{
		Scope:       scope,
		KeywordType: kt,
		Keyword:     req.Keyword,
		Sort:        NewestFirst,
		Offset:      offset,
		Limit:       size,
	})
	if err != nil {
		return Page[T]{}, fmt.Errorf("list page: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	if len(items) > size {
		items = items[:size]
	}

	return Page[T]{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages(total, size),
		Page:       page,
		PageSize:   size,
	}, nil
}

func totalPages(total int64, size int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(size)))
}

// MapPage converts the items of p with f, keeping the window metadata.
func MapPage[T, U any](p Page[T], f func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = f(it)
	}
	return Page[U]{
		Items:      items,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
}
