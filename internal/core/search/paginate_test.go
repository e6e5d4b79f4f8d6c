package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"
)

type item struct {
	id        int64
	author    int64
	published bool
	listed    bool
	subject   string
	created   time.Time
}

// memSource filters and orders like the Mongo repositories do.
type memSource struct {
	items   []item
	lastQry Query
	err     error
}

func (m *memSource) ListPage(_ context.Context, q Query) ([]item, int64, error) {
	m.lastQry = q
	if m.err != nil {
		return nil, 0, m.err
	}

	var matched []item
	for _, it := range m.items {
		if q.ListedOnly && !it.listed {
			continue
		}
		if q.AuthorID != nil && it.author != *q.AuthorID {
			continue
		}
		if q.HasKeyword() && q.KeywordType == KeywordSubject &&
			!strings.Contains(strings.ToLower(it.subject), strings.ToLower(q.Keyword)) {
			continue
		}
		matched = append(matched, it)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].created.Equal(matched[j].created) {
			return matched[i].created.After(matched[j].created)
		}
		return matched[i].id > matched[j].id
	})

	total := int64(len(matched))
	if q.Offset >= total {
		return nil, total, nil
	}
	end := q.Offset + int64(q.Limit)
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func ids(items []item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var t0 = time.Date(2026, 1, 9, 9, 0, 0, 0, time.UTC)

func scenarioSource() *memSource {
	return &memSource{items: []item{
		{id: 1, author: 5, published: true, listed: true, subject: "first", created: t0},
		{id: 2, author: 5, published: false, listed: false, subject: "second", created: t0.Add(time.Minute)},
		{id: 3, author: 9, published: true, listed: false, subject: "third", created: t0.Add(2 * time.Minute)},
	}}
}

func TestPaginate_PublicListingShowsListedOnly(t *testing.T) {
	src := scenarioSource()

	page, err := Paginate[item](context.Background(), NewPaginator(10, 100), src, Request{Page: 1, PageSize: 10}, Scope{ListedOnly: true})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if got := ids(page.Items); !equalIDs(got, []int64{1}) {
		t.Errorf("expected [1], got %v", got)
	}
	if page.TotalCount != 1 || page.TotalPages != 1 {
		t.Errorf("expected total 1 / pages 1, got %d / %d", page.TotalCount, page.TotalPages)
	}
}

func TestPaginate_MyResourcesNewestFirst(t *testing.T) {
	src := scenarioSource()
	me := int64(5)

	page, err := Paginate[item](context.Background(), NewPaginator(10, 100), src, Request{Page: 1, PageSize: 10}, Scope{AuthorID: &me})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if got := ids(page.Items); !equalIDs(got, []int64{2, 1}) {
		t.Errorf("expected [2 1], got %v", got)
	}
}

func TestPaginate_TiesBrokenByIDDesc(t *testing.T) {
	src := &memSource{items: []item{
		{id: 10, listed: true, created: t0},
		{id: 12, listed: true, created: t0},
		{id: 11, listed: true, created: t0},
	}}

	page, _ := Paginate[item](context.Background(), NewPaginator(10, 100), src, Request{Page: 1, PageSize: 10}, Scope{})
	if got := ids(page.Items); !equalIDs(got, []int64{12, 11, 10}) {
		t.Errorf("expected [12 11 10], got %v", got)
	}
	if len(src.lastQry.Sort) != 2 || src.lastQry.Sort[0] != (SortKey{Field: FieldCreatedAt, Desc: true}) ||
		src.lastQry.Sort[1] != (SortKey{Field: FieldID, Desc: true}) {
		t.Errorf("unexpected sort handed to source: %+v", src.lastQry.Sort)
	}
}

func TestPaginate_PageZeroEqualsPageOne(t *testing.T) {
	p := NewPaginator(2, 100)

	zero, err := Paginate[item](context.Background(), p, scenarioSource(), Request{Page: 0, PageSize: 2}, Scope{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	one, _ := Paginate[item](context.Background(), p, scenarioSource(), Request{Page: 1, PageSize: 2}, Scope{})

	if !equalIDs(ids(zero.Items), ids(one.Items)) || zero.Page != 1 || zero.TotalCount != one.TotalCount {
		t.Errorf("page 0 %+v differs from page 1 %+v", zero, one)
	}
}

func TestPaginate_PageBeyondEnd(t *testing.T) {
	page, err := Paginate[item](context.Background(), NewPaginator(10, 100), scenarioSource(), Request{Page: 999999, PageSize: 10}, Scope{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", page.Items)
	}
	if page.TotalCount != 3 {
		t.Errorf("expected total 3, got %d", page.TotalCount)
	}
	if page.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", page.TotalPages)
	}
}

func TestPaginate_PageSizeClamped(t *testing.T) {
	cases := []struct {
		name     string
		reqSize  int
		wantSize int
	}{
		{"zero", 0, 1},
		{"negative", -3, 1},
		{"within", 7, 7},
		{"above max", 5000, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := scenarioSource()
			page, err := Paginate[item](context.Background(), NewPaginator(10, 50), src, Request{Page: 1, PageSize: tc.reqSize}, Scope{})
			if err != nil {
				t.Fatalf("Paginate: %v", err)
			}
			if page.PageSize != tc.wantSize || src.lastQry.Limit != tc.wantSize {
				t.Errorf("expected size %d, got page %d / query %d", tc.wantSize, page.PageSize, src.lastQry.Limit)
			}
		})
	}
}

func TestPaginate_WindowAndTotalPages(t *testing.T) {
	src := &memSource{}
	for i := int64(1); i <= 5; i++ {
		src.items = append(src.items, item{id: i, created: t0.Add(time.Duration(i) * time.Minute)})
	}

	page, err := Paginate[item](context.Background(), NewPaginator(10, 100), src, Request{Page: 2, PageSize: 2}, Scope{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if src.lastQry.Offset != 2 {
		t.Errorf("expected offset 2, got %d", src.lastQry.Offset)
	}
	if got := ids(page.Items); !equalIDs(got, []int64{3, 2}) {
		t.Errorf("expected [3 2], got %v", got)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}
}

func TestPaginate_KeywordForwarded(t *testing.T) {
	src := scenarioSource()

	page, err := Paginate[item](context.Background(), NewPaginator(10, 100), src, Request{Keyword: "THI", Page: 1, PageSize: 10}, Scope{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if src.lastQry.KeywordType != KeywordSubject {
		t.Errorf("empty keyword type must default to subject, got %q", src.lastQry.KeywordType)
	}
	if got := ids(page.Items); !equalIDs(got, []int64{3}) {
		t.Errorf("expected [3], got %v", got)
	}
}

func TestPaginate_EmptyCollection(t *testing.T) {
	page, err := Paginate[item](context.Background(), NewPaginator(10, 100), &memSource{}, Request{Page: 1, PageSize: 10}, Scope{ListedOnly: true})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if page.TotalPages != 0 || page.TotalCount != 0 || page.Items == nil {
		t.Errorf("unexpected empty page: %+v", page)
	}
}

func TestPaginate_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := Paginate[item](context.Background(), NewPaginator(10, 100), &memSource{err: boom}, Request{}, Scope{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestParseKeywordType(t *testing.T) {
	cases := []struct {
		in      string
		want    KeywordType
		wantErr bool
	}{
		{"", KeywordSubject, false},
		{"subject", KeywordSubject, false},
		{"title", KeywordSubject, false},
		{"Content", KeywordContent, false},
		{"author", KeywordAuthor, false},
		{"everything", "", true},
	}

	for _, tc := range cases {
		got, err := ParseKeywordType(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownKeywordType) {
				t.Errorf("%q: expected ErrUnknownKeywordType, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%q: expected %q, got %q (%v)", tc.in, tc.want, got, err)
		}
	}
}

func TestNewPaginator_Defaults(t *testing.T) {
	p := NewPaginator(0, 0)
	if p.DefaultPageSize() != DefaultPageSize || p.MaxPageSize() != MaxPageSize {
		t.Errorf("unexpected defaults: %d / %d", p.DefaultPageSize(), p.MaxPageSize())
	}
	if p := NewPaginator(500, 20); p.DefaultPageSize() != 20 {
		t.Errorf("default size must be capped at max, got %d", p.DefaultPageSize())
	}
}

func TestMapPage_KeepsWindow(t *testing.T) {
	in := Page[item]{Items: []item{{id: 4}, {id: 2}}, TotalCount: 9, TotalPages: 5, Page: 2, PageSize: 2}

	out := MapPage(in, func(it item) int64 { return it.id * 10 })

	if !equalIDs(out.Items, []int64{40, 20}) {
		t.Errorf("unexpected items: %v", out.Items)
	}
	if out.TotalCount != 9 || out.TotalPages != 5 || out.Page != 2 || out.PageSize != 2 {
		t.Errorf("window not preserved: %+v", out)
	}
}
