package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/policy"
	"github.com/sbbdoc/board-api/internal/core/ports"
	"github.com/sbbdoc/board-api/internal/core/search"
)

type PostService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	actors   ports.ActorRepository
	policy   policy.Policy
	pager    search.Paginator
	logger   zerolog.Logger
	now      func() time.Time
}

func NewPostService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	actors ports.ActorRepository,
	pol policy.Policy,
	pager search.Paginator,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		actors:   actors,
		policy:   pol,
		pager:    pager,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns listed posts only, whoever asks.
func (s *PostService) List(ctx context.Context, req search.Request) (search.Page[ports.PostView], error) {
	return s.list(ctx, req, search.Scope{ListedOnly: true})
}

// ListMine returns every post written by actor, listed or not.
func (s *PostService) ListMine(ctx context.Context, actor *domain.Actor, req search.Request) (search.Page[ports.PostView], error) {
	if actor == nil {
		return search.Page[ports.PostView]{}, domain.ErrAuthenticationRequired
	}
	id := actor.ID
	return s.list(ctx, req, search.Scope{AuthorID: &id})
}

func (s *PostService) list(ctx context.Context, req search.Request, scope search.Scope) (search.Page[ports.PostView], error) {
	page, err := search.Paginate[*domain.Post](ctx, s.pager, s.posts, req, scope)
	if err != nil {
		return search.Page[ports.PostView]{}, err
	}

	ids := make([]int64, 0, len(page.Items))
	for _, p := range page.Items {
		ids = append(ids, p.AuthorID)
	}
	names, err := nicknames(ctx, s.actors, ids)
	if err != nil {
		return search.Page[ports.PostView]{}, err
	}

	return search.MapPage(page, func(p *domain.Post) ports.PostView {
		return ports.PostView{Post: p, AuthorNickname: names[p.AuthorID]}
	}), nil
}

// Get returns a post; unpublished posts are visible to their author only.
func (s *PostService) Get(ctx context.Context, actor *domain.Actor, id int64) (*ports.PostView, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(actor, post, policy.Read) {
		return nil, domain.ErrForbidden
	}
	return s.view(ctx, post)
}

func (s *PostService) Create(ctx context.Context, actor *domain.Actor, input ports.PostInput) (*ports.PostView, error) {
	if actor == nil {
		return nil, domain.ErrAuthenticationRequired
	}

	now := s.now().UTC()
	post := &domain.Post{
		AuthorID:   actor.ID,
		Subject:    input.Subject,
		Content:    input.Content,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	post.SetVisibility(input.Published, input.Listed)

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Int64("actor_id", actor.ID).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Int64("post_id", post.ID).Int64("actor_id", actor.ID).Msg("post created")
	return &ports.PostView{Post: post, AuthorNickname: actor.Nickname}, nil
}

func (s *PostService) Modify(ctx context.Context, actor *domain.Actor, id, version int64, input ports.PostInput) (*ports.PostView, error) {
	post, err := s.authorize(ctx, actor, id, version, policy.Modify)
	if err != nil {
		return nil, err
	}

	post.Subject = input.Subject
	post.Content = input.Content
	post.SetVisibility(input.Published, input.Listed)
	post.ModifiedAt = s.now().UTC()

	if err := s.posts.Update(ctx, post, version); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("post_id", post.ID).Int64("version", post.Version).Msg("post modified")
	return &ports.PostView{Post: post, AuthorNickname: actor.Nickname}, nil
}

// Delete removes the post and then its comments.
func (s *PostService) Delete(ctx context.Context, actor *domain.Actor, id, version int64) error {
	if _, err := s.authorize(ctx, actor, id, version, policy.Delete); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id, version); err != nil {
		return err
	}

	// The post delete is committed; comments left behind are unreachable
	// through the API once their post is gone.
	removed, err := s.comments.DeleteByPost(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("post_id", id).Msg("post deleted but its comments were not removed")
		return nil
	}

	s.logger.Info().Int64("post_id", id).Int64("comments_removed", removed).Msg("post deleted")
	return nil
}

func (s *PostService) Statistics(ctx context.Context) (domain.PostStatistics, error) {
	return s.posts.Statistics(ctx)
}

// authorize loads the post and runs the checks shared by modify and delete.
func (s *PostService) authorize(ctx context.Context, actor *domain.Actor, id, version int64, op policy.Operation) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if version <= 0 {
		return nil, domain.ErrVersionRequired
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(actor, post, op) {
		s.logger.Warn().Int64("post_id", id).Int64("actor_id", actor.ID).Str("op", op.String()).Msg("post access denied")
		return nil, domain.ErrForbidden
	}
	if post.Version != version {
		return nil, domain.ErrConflict
	}
	return post, nil
}

func (s *PostService) view(ctx context.Context, post *domain.Post) (*ports.PostView, error) {
	names, err := nicknames(ctx, s.actors, []int64{post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &ports.PostView{Post: post, AuthorNickname: names[post.AuthorID]}, nil
}

// nicknames resolves author ids to display names. Unknown ids are absent
// from the result.
func nicknames(ctx context.Context, actors ports.ActorRepository, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	found, err := actors.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	for id, a := range found {
		out[id] = a.Nickname
	}
	return out, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
