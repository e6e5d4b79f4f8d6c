package domain

import "errors"

var (
	ErrActorNotFound          = errors.New("actor not found")
	ErrActorExists            = errors.New("actor already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnknownCredential      = errors.New("unknown credential")
	ErrAuthenticationRequired = errors.New("authentication required")

	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("access forbidden")

	// ErrConflict is returned when a modify or delete carries a version that
	// no longer matches the stored one.
	ErrConflict        = errors.New("version conflict")
	ErrVersionRequired = errors.New("resource version required")
)
