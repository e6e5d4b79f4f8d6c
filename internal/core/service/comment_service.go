package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/policy"
	"github.com/sbbdoc/board-api/internal/core/ports"
	"github.com/sbbdoc/board-api/internal/core/search"
)

type CommentService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	actors   ports.ActorRepository
	policy   policy.Policy
	pager    search.Paginator
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCommentService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	actors ports.ActorRepository,
	pol policy.Policy,
	pager search.Paginator,
	logger zerolog.Logger,
) *CommentService {
	return &CommentService{
		posts:    posts,
		comments: comments,
		actors:   actors,
		policy:   pol,
		pager:    pager,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *CommentService) List(ctx context.Context, actor *domain.Actor, postID int64, req search.Request) (search.Page[ports.CommentView], error) {
	if _, err := s.readablePost(ctx, actor, postID); err != nil {
		return search.Page[ports.CommentView]{}, err
	}

	// Comments only support matching on their content.
	req.KeywordType = search.KeywordContent
	page, err := search.Paginate[*domain.Comment](ctx, s.pager, s.comments, req, search.Scope{PostID: &postID})
	if err != nil {
		return search.Page[ports.CommentView]{}, err
	}

	ids := make([]int64, 0, len(page.Items))
	for _, c := range page.Items {
		ids = append(ids, c.AuthorID)
	}
	names, err := nicknames(ctx, s.actors, ids)
	if err != nil {
		return search.Page[ports.CommentView]{}, err
	}

	return search.MapPage(page, func(c *domain.Comment) ports.CommentView {
		return ports.CommentView{Comment: c, AuthorNickname: names[c.AuthorID]}
	}), nil
}

func (s *CommentService) Create(ctx context.Context, actor *domain.Actor, postID int64, content string) (*ports.CommentView, error) {
	if actor == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if _, err := s.readablePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	comment := &domain.Comment{
		PostID:     postID,
		AuthorID:   actor.ID,
		Content:    content,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("post_id", postID).Msg("failed to create comment")
		return nil, err
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("post_id", postID).Msg("comment created")
	return &ports.CommentView{Comment: comment, AuthorNickname: actor.Nickname}, nil
}

func (s *CommentService) Modify(ctx context.Context, actor *domain.Actor, postID, id, version int64, content string) (*ports.CommentView, error) {
	comment, err := s.authorize(ctx, actor, postID, id, version, policy.Modify)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	comment.ModifiedAt = s.now().UTC()
	if err := s.comments.Update(ctx, comment, version); err != nil {
		return nil, err
	}
	return &ports.CommentView{Comment: comment, AuthorNickname: actor.Nickname}, nil
}

func (s *CommentService) Delete(ctx context.Context, actor *domain.Actor, postID, id, version int64) error {
	if _, err := s.authorize(ctx, actor, postID, id, version, policy.Delete); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, postID, id, version); err != nil {
		return err
	}

	s.logger.Info().Int64("comment_id", id).Int64("post_id", postID).Msg("comment deleted")
	return nil
}

// readablePost returns the parent post if actor may read it.
func (s *CommentService) readablePost(ctx context.Context, actor *domain.Actor, postID int64) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(actor, post, policy.Read) {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func (s *CommentService) authorize(ctx context.Context, actor *domain.Actor, postID, id, version int64, op policy.Operation) (*domain.Comment, error) {
	if actor == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if version <= 0 {
		return nil, domain.ErrVersionRequired
	}
	if _, err := s.readablePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	comment, err := s.comments.FindByID(ctx, postID, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(actor, comment, op) {
		s.logger.Warn().Int64("comment_id", id).Int64("actor_id", actor.ID).Str("op", op.String()).Msg("comment access denied")
		return nil, domain.ErrForbidden
	}
	if comment.Version != version {
		return nil, domain.ErrConflict
	}
	return comment, nil
}
