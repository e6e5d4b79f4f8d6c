package domain

import "time"

// Comment is a reply attached to a Post by id. Its readability follows the
// parent post, so it carries no visibility flags of its own.
type Comment struct {
	ID         int64     `json:"id" bson:"_id"`
	PostID     int64     `json:"post_id" bson:"post_id"`
	AuthorID   int64     `json:"author_id" bson:"author_id"`
	Content    string    `json:"content" bson:"content"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	ModifiedAt time.Time `json:"modified_at" bson:"modified_at"`
	Version    int64     `json:"version" bson:"version"`
}

func (c *Comment) OwnerID() int64    { return c.AuthorID }
func (c *Comment) IsPublished() bool { return true }
