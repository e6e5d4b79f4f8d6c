package ports

import (
	"context"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// CommentView is a comment together with its author's display name.
type CommentView struct {
	Comment        *domain.Comment
	AuthorNickname string
}

// CommentService defines use-case operations for comments. Every call first
// checks that the parent post is readable by the actor.
type CommentService interface {
	List(ctx context.Context, actor *domain.Actor, postID int64, req search.Request) (search.Page[CommentView], error)
	Create(ctx context.Context, actor *domain.Actor, postID int64, content string) (*CommentView, error)
	Modify(ctx context.Context, actor *domain.Actor, postID, id, version int64, content string) (*CommentView, error)
	Delete(ctx context.Context, actor *domain.Actor, postID, id, version int64) error
}
