package ports

import (
	"context"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// PostInput carries the writable fields of a post.
type PostInput struct {
	Subject   string
	Content   string
	Published bool
	Listed    bool
}

// PostView is a post together with its author's display name.
type PostView struct {
	Post           *domain.Post
	AuthorNickname string
}

// PostService defines use-case operations for posts. A nil actor is the
// anonymous caller. Version arguments come from If-Match; zero means absent.
type PostService interface {
	List(ctx context.Context, req search.Request) (search.Page[PostView], error)
	ListMine(ctx context.Context, actor *domain.Actor, req search.Request) (search.Page[PostView], error)
	Get(ctx context.Context, actor *domain.Actor, id int64) (*PostView, error)
	Create(ctx context.Context, actor *domain.Actor, input PostInput) (*PostView, error)
	Modify(ctx context.Context, actor *domain.Actor, id, version int64, input PostInput) (*PostView, error)
	Delete(ctx context.Context, actor *domain.Actor, id, version int64) error
	Statistics(ctx context.Context) (domain.PostStatistics, error)
}
