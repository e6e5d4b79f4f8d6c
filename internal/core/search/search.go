// Package search computes bounded, filtered, newest-first result windows
// over a resource collection. The collection itself is owned by a Source;
// this package only decides what to ask for.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKeywordType is returned by ParseKeywordType.
var ErrUnknownKeywordType = errors.New("unknown search keyword type")

// KeywordType selects the single field a keyword is matched against.
type KeywordType string

const (
	KeywordSubject KeywordType = "subject"
	KeywordContent KeywordType = "content"
	KeywordAuthor  KeywordType = "author"
)

// ParseKeywordType accepts subject, content and author. "title" is an alias
// of subject and the empty string defaults to subject.
func ParseKeywordType(s string) (KeywordType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "subject", "title":
		return KeywordSubject, nil
	case "content":
		return KeywordContent, nil
	case "author":
		return KeywordAuthor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKeywordType, s)
	}
}

// Request is what a listing caller asks for.
type Request struct {
	KeywordType KeywordType
	Keyword     string
	Page        int // 1-based
	PageSize    int
}

// Scope narrows a listing independently of the keyword.
type Scope struct {
	// ListedOnly keeps only listed resources (public listings).
	ListedOnly bool
	// AuthorID keeps only resources written by that actor ("my posts").
	AuthorID *int64
	// PostID keeps only comments attached to that post.
	PostID *int64
}

// Field names a sortable attribute.
type Field string

const (
	FieldCreatedAt Field = "created_at"
	FieldID        Field = "id"
)

// SortKey is one ordering criterion.
type SortKey struct {
	Field Field
	Desc  bool
}

// NewestFirst is the only ordering listings use: creation time descending,
// ties broken by id descending.
var NewestFirst = []SortKey{
	{Field: FieldCreatedAt, Desc: true},
	{Field: FieldID, Desc: true},
}

// Query is handed to a Source. Filters are AND-composed.
type Query struct {
	Scope
	KeywordType KeywordType
	Keyword     string
	Sort        []SortKey
	Offset      int64
	Limit       int
}

// HasKeyword reports whether a keyword predicate applies.
func (q Query) HasKeyword() bool {
	return strings.TrimSpace(q.Keyword) != ""
}

// Source returns one window of matching items plus the total match count.
// Both values must come from the same consistent view.
type Source[T any] interface {
	ListPage(ctx context.Context, q Query) ([]T, int64, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, q Query) ([]T, int64, error)

func (f SourceFunc[T]) ListPage(ctx context.Context, q Query) ([]T, int64, error) {
	return f(ctx, q)
}

// Page is one window of results.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	TotalPages int
	Page       int
	PageSize   int
}
