package domain

import "time"

// Resource is the shape shared by everything the authorization policy
// decides on: it has an owner and may be hidden from non-owners.
type Resource interface {
	OwnerID() int64
	IsPublished() bool
}

// Post is the top-level listable resource.
type Post struct {
	ID         int64     `json:"id" bson:"_id"`
	AuthorID   int64     `json:"author_id" bson:"author_id"`
	Subject    string    `json:"subject" bson:"subject"`
	Content    string    `json:"content" bson:"content"`
	Published  bool      `json:"published" bson:"published"`
	Listed     bool      `json:"listed" bson:"listed"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	ModifiedAt time.Time `json:"modified_at" bson:"modified_at"`
	Version    int64     `json:"version" bson:"version"`
}

func (p *Post) OwnerID() int64    { return p.AuthorID }
func (p *Post) IsPublished() bool { return p.Published }

// SetVisibility applies the published/listed flags. An unpublished post is
// never listed.
func (p *Post) SetVisibility(published, listed bool) {
	p.Published = published
	p.Listed = listed && published
}

// PostStatistics are the aggregate counters over all posts.
type PostStatistics struct {
	Total     int64
	Published int64
	Listed    int64
}
