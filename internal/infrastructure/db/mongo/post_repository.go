package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// PostRepository implements ports.PostRepository using MongoDB.
type PostRepository struct {
	col    *mongo.Collection
	actors *mongo.Collection
	ids    sequence
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col:    db.Collection(collectionPosts),
		actors: db.Collection(collectionActors),
		ids:    newSequence(db, collectionPosts),
	}
}

// Create inserts a new post document with version 1.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	p.ID = id
	p.Version = 1

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

// ListPage counts every match and fetches the requested window, newest first.
func (r *PostRepository) ListPage(ctx context.Context, q search.Query) ([]*domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var authorIDs []int64
	if q.HasKeyword() && q.KeywordType == search.KeywordAuthor {
		ids, err := actorIDsByNickname(ctx, r.actors, q.Keyword)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []*domain.Post{}, 0, nil
		}
		authorIDs = ids
	}
	filter := postFilter(q, authorIDs)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	if total == 0 || q.Offset >= total {
		return []*domain.Post{}, total, nil
	}

	opts := options.Find().
		SetSort(sortDoc(q.Sort)).
		SetSkip(q.Offset).
		SetLimit(int64(q.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}
	posts := make([]*domain.Post, 0, q.Limit)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}
	return posts, total, nil
}

// Update writes the mutable fields of p if the stored version is still
// expectedVersion, and bumps p.Version on success.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"subject":     p.Subject,
			"content":     p.Content,
			"published":   p.Published,
			"listed":      p.Listed,
			"modified_at": p.ModifiedAt,
		},
		"$inc": bson.M{"version": int64(1)},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID, "version": expectedVersion}, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return missOrConflict(ctx, r.col, bson.M{"_id": p.ID}, domain.ErrPostNotFound, domain.ErrConflict)
	}
	p.Version = expectedVersion + 1
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "version": expectedVersion})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return missOrConflict(ctx, r.col, bson.M{"_id": id}, domain.ErrPostNotFound, domain.ErrConflict)
	}
	return nil
}

func (r *PostRepository) Statistics(ctx context.Context) (domain.PostStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var st domain.PostStatistics
	counts := []struct {
		dst    *int64
		filter bson.M
	}{
		{&st.Total, bson.M{}},
		{&st.Published, bson.M{"published": true}},
		{&st.Listed, bson.M{"listed": true}},
	}
	for _, c := range counts {
		n, err := r.col.CountDocuments(ctx, c.filter)
		if err != nil {
			return domain.PostStatistics{}, fmt.Errorf("count posts: %w", err)
		}
		*c.dst = n
	}
	return st, nil
}

// EnsureIndexes creates the listing indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listed", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
