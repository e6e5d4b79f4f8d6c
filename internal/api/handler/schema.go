package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Users ---

type signUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=3,max=50"`
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
	Email    string `json:"email"    validate:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type actorResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Nickname   string    `json:"nickname"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	CreateDate time.Time `json:"createDate"`
}

// sessionResponse is returned by login and key rotation. The API key is only
// ever shown here.
type sessionResponse struct {
	Actor       actorResponse `json:"actor"`
	APIKey      string        `json:"apiKey"`
	AccessToken string        `json:"accessToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Posts ---

type postRequest struct {
	Subject   string `json:"subject"   validate:"required,min=3,max=100"`
	Content   string `json:"content"   validate:"required,min=3"`
	Published bool   `json:"published"`
	Listed    bool   `json:"listed"`
}

type postItemResponse struct {
	ID         int64     `json:"id"`
	CreateDate time.Time `json:"createDate"`
	ModifyDate time.Time `json:"modifyDate"`
	Subject    string    `json:"subject"`
	Author     string    `json:"author"`
	Published  bool      `json:"published"`
	Listed     bool      `json:"listed"`
}

type postResponse struct {
	postItemResponse
	AuthorID int64  `json:"authorId"`
	Content  string `json:"content"`
	Version  int64  `json:"version"`
}

type postStatisticsResponse struct {
	TotalPosts     int64 `json:"totalPosts"`
	PublishedPosts int64 `json:"publishedPosts"`
	ListedPosts    int64 `json:"listedPosts"`
}

// --- Comments ---

type commentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=100"`
}

type commentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"postId"`
	CreateDate time.Time `json:"createDate"`
	ModifyDate time.Time `json:"modifyDate"`
	Author     string    `json:"author"`
	AuthorID   int64     `json:"authorId"`
	Content    string    `json:"content"`
	Version    int64     `json:"version"`
}

// --- Listing envelope ---

type pageResponse[T any] struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Items       []T   `json:"items"`
}
