package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubActorRepo struct {
	byID   map[int64]*domain.Actor
	nextID int64
	err    error // if set, every call returns it
	reads  int   // FindByID and FindByAPIKey calls
}

func newStubActorRepo(actors ...*domain.Actor) *stubActorRepo {
	r := &stubActorRepo{byID: make(map[int64]*domain.Actor)}
	for _, a := range actors {
		clone := *a
		r.byID[a.ID] = &clone
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *stubActorRepo) Create(_ context.Context, a *domain.Actor) (*domain.Actor, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.byID {
		if existing.Username == a.Username {
			return nil, domain.ErrActorExists
		}
	}
	r.nextID++
	clone := *a
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubActorRepo) FindByID(_ context.Context, id int64) (*domain.Actor, error) {
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrActorNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubActorRepo) FindByUsername(_ context.Context, username string) (*domain.Actor, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.byID {
		if a.Username == username {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrActorNotFound
}

func (r *stubActorRepo) FindByAPIKey(_ context.Context, apiKey string) (*domain.Actor, error) {
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.byID {
		if a.APIKey == apiKey {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrActorNotFound
}

func (r *stubActorRepo) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.Actor, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[int64]*domain.Actor)
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			clone := *a
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubActorRepo) UpdateAPIKey(_ context.Context, id int64, apiKey string) error {
	if r.err != nil {
		return r.err
	}
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrActorNotFound
	}
	a.APIKey = apiKey
	return nil
}

type stubPostRepo struct {
	byID   map[int64]*domain.Post
	nextID int64
}

func newStubPostRepo(posts ...*domain.Post) *stubPostRepo {
	r := &stubPostRepo{byID: make(map[int64]*domain.Post)}
	for _, p := range posts {
		clone := *p
		if clone.Version == 0 {
			clone.Version = 1
		}
		r.byID[p.ID] = &clone
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.nextID++
	p.ID = r.nextID
	p.Version = 1
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

// ListPage applies the same filters and ordering the Mongo repo uses.
func (r *stubPostRepo) ListPage(_ context.Context, q search.Query) ([]*domain.Post, int64, error) {
	var matched []*domain.Post
	for _, p := range r.byID {
		if q.ListedOnly && !p.Listed {
			continue
		}
		if q.AuthorID != nil && p.AuthorID != *q.AuthorID {
			continue
		}
		if q.HasKeyword() {
			field := p.Subject
			if q.KeywordType == search.KeywordContent {
				field = p.Content
			}
			if !strings.Contains(strings.ToLower(field), strings.ToLower(q.Keyword)) {
				continue
			}
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return window(matched, q)
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post, expectedVersion int64) error {
	stored, ok := r.byID[p.ID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	p.Version = expectedVersion + 1
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id, expectedVersion int64) error {
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	delete(r.byID, id)
	return nil
}

func (r *stubPostRepo) Statistics(_ context.Context) (domain.PostStatistics, error) {
	var st domain.PostStatistics
	for _, p := range r.byID {
		st.Total++
		if p.Published {
			st.Published++
		}
		if p.Listed {
			st.Listed++
		}
	}
	return st, nil
}

type stubCommentRepo struct {
	byID      map[int64]*domain.Comment
	nextID    int64
	deleteErr error // returned by DeleteByPost
}

func newStubCommentRepo(comments ...*domain.Comment) *stubCommentRepo {
	r := &stubCommentRepo{byID: make(map[int64]*domain.Comment)}
	for _, c := range comments {
		clone := *c
		if clone.Version == 0 {
			clone.Version = 1
		}
		r.byID[c.ID] = &clone
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.nextID++
	c.ID = r.nextID
	c.Version = 1
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, postID, id int64) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok || c.PostID != postID {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) ListPage(_ context.Context, q search.Query) ([]*domain.Comment, int64, error) {
	var matched []*domain.Comment
	for _, c := range r.byID {
		if q.PostID != nil && c.PostID != *q.PostID {
			continue
		}
		if q.HasKeyword() && !strings.Contains(strings.ToLower(c.Content), strings.ToLower(q.Keyword)) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return window(matched, q)
}

func (r *stubCommentRepo) Update(_ context.Context, c *domain.Comment, expectedVersion int64) error {
	stored, ok := r.byID[c.ID]
	if !ok || stored.PostID != c.PostID {
		return domain.ErrCommentNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	c.Version = expectedVersion + 1
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, postID, id, expectedVersion int64) error {
	stored, ok := r.byID[id]
	if !ok || stored.PostID != postID {
		return domain.ErrCommentNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCommentRepo) DeleteByPost(_ context.Context, postID int64) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var n int64
	for id, c := range r.byID {
		if c.PostID == postID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func window[T any](matched []T, q search.Query) ([]T, int64, error) {
	total := int64(len(matched))
	if q.Offset >= total {
		return []T{}, total, nil
	}
	end := q.Offset + int64(q.Limit)
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

type stubCache struct {
	entries     map[string]domain.Actor
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]domain.Actor)}
}

func (c *stubCache) Get(_ context.Context, key string) (*domain.Actor, bool) {
	a, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return &a, true
}

func (c *stubCache) Set(_ context.Context, key string, a *domain.Actor) {
	c.entries[key] = *a
}

func (c *stubCache) Invalidate(_ context.Context, key string) {
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
}
