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

// CommentRepository implements ports.CommentRepository using MongoDB.
type CommentRepository struct {
	col *mongo.Collection
	ids sequence
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		col: db.Collection(collectionComments),
		ids: newSequence(db, collectionComments),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	c.ID = id
	c.Version = 1

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, postID, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Comment
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "post_id": postID}).Decode(&c); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) ListPage(ctx context.Context, q search.Query) ([]*domain.Comment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := commentFilter(q)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	if total == 0 || q.Offset >= total {
		return []*domain.Comment{}, total, nil
	}

	opts := options.Find().
		SetSort(sortDoc(q.Sort)).
		SetSkip(q.Offset).
		SetLimit(int64(q.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find comments: %w", err)
	}
	comments := make([]*domain.Comment, 0, q.Limit)
	if err := cur.All(ctx, &comments); err != nil {
		return nil, 0, fmt.Errorf("decode comments: %w", err)
	}
	return comments, total, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": c.ID, "post_id": c.PostID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"content": c.Content, "modified_at": c.ModifiedAt},
		"$inc": bson.M{"version": int64(1)},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return missOrConflict(ctx, r.col, bson.M{"_id": c.ID, "post_id": c.PostID}, domain.ErrCommentNotFound, domain.ErrConflict)
	}
	c.Version = expectedVersion + 1
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, postID, id, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "post_id": postID, "version": expectedVersion})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return missOrConflict(ctx, r.col, bson.M{"_id": id, "post_id": postID}, domain.ErrCommentNotFound, domain.ErrConflict)
	}
	return nil
}

// DeleteByPost removes every comment of a post and reports how many went.
func (r *CommentRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, fmt.Errorf("delete comments of post %d: %w", postID, err)
	}
	return res.DeletedCount, nil
}

func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	return err
}
