package ports

import (
	"context"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// PostRepository persists posts.
type PostRepository interface {
	// Create assigns ID and sets Version to 1.
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// ListPage returns one window of posts matching q and the total match count.
	ListPage(ctx context.Context, q search.Query) ([]*domain.Post, int64, error)
	// Update stores p only if the stored version still equals expectedVersion,
	// then bumps p.Version. A stale version yields domain.ErrConflict.
	Update(ctx context.Context, p *domain.Post, expectedVersion int64) error
	// Delete removes the post if its version equals expectedVersion.
	Delete(ctx context.Context, id, expectedVersion int64) error
	Statistics(ctx context.Context) (domain.PostStatistics, error)
}

// CommentRepository persists comments. Every lookup is scoped to a post.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, postID, id int64) (*domain.Comment, error)
	// ListPage honours q.PostID.
	ListPage(ctx context.Context, q search.Query) ([]*domain.Comment, int64, error)
	Update(ctx context.Context, c *domain.Comment, expectedVersion int64) error
	Delete(ctx context.Context, postID, id, expectedVersion int64) error
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
}
