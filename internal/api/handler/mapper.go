package handler

import (
	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/ports"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// --- Request → Service input ---

func toSignupInput(r signUpRequest) ports.SignupInput {
	return ports.SignupInput{
		Username: r.Username,
		Password: r.Password,
		Nickname: r.Nickname,
		Email:    r.Email,
	}
}

func toPostInput(r postRequest) ports.PostInput {
	return ports.PostInput{
		Subject:   r.Subject,
		Content:   r.Content,
		Published: r.Published,
		Listed:    r.Listed,
	}
}

// --- Service result → HTTP response ---

func toActorResponse(a *domain.Actor) actorResponse {
	return actorResponse{
		ID:         a.ID,
		Username:   a.Username,
		Nickname:   a.Nickname,
		Email:      a.Email,
		Role:       string(a.Role),
		CreateDate: a.CreatedAt.UTC(),
	}
}

func toSessionResponse(s *ports.Session) sessionResponse {
	return sessionResponse{
		Actor:       toActorResponse(s.Actor),
		APIKey:      s.APIKey,
		AccessToken: s.AccessToken,
	}
}

func toPostItem(v ports.PostView) postItemResponse {
	return postItemResponse{
		ID:         v.Post.ID,
		CreateDate: v.Post.CreatedAt.UTC(),
		ModifyDate: v.Post.ModifiedAt.UTC(),
		Subject:    v.Post.Subject,
		Author:     v.AuthorNickname,
		Published:  v.Post.Published,
		Listed:     v.Post.Listed,
	}
}

func toPostResponse(v *ports.PostView) postResponse {
	return postResponse{
		postItemResponse: toPostItem(*v),
		AuthorID:         v.Post.AuthorID,
		Content:          v.Post.Content,
		Version:          v.Post.Version,
	}
}

func toCommentResponse(v ports.CommentView) commentResponse {
	return commentResponse{
		ID:         v.Comment.ID,
		PostID:     v.Comment.PostID,
		CreateDate: v.Comment.CreatedAt.UTC(),
		ModifyDate: v.Comment.ModifiedAt.UTC(),
		Author:     v.AuthorNickname,
		AuthorID:   v.Comment.AuthorID,
		Content:    v.Comment.Content,
		Version:    v.Comment.Version,
	}
}

func toStatisticsResponse(s domain.PostStatistics) postStatisticsResponse {
	return postStatisticsResponse{
		TotalPosts:     s.Total,
		PublishedPosts: s.Published,
		ListedPosts:    s.Listed,
	}
}

func toPageResponse[T, U any](p search.Page[T], f func(T) U) pageResponse[U] {
	mapped := search.MapPage(p, f)
	return pageResponse[U]{
		CurrentPage: mapped.Page,
		PageSize:    mapped.PageSize,
		TotalPages:  mapped.TotalPages,
		TotalItems:  mapped.TotalCount,
		Items:       mapped.Items,
	}
}
