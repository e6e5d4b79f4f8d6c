package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sbbdoc/board-api/internal/core/domain"
)

// ActorRepository implements ports.ActorRepository using MongoDB.
type ActorRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewActorRepository(db *mongo.Database) *ActorRepository {
	return &ActorRepository{
		col: db.Collection(collectionActors),
		ids: newSequence(db, collectionActors),
	}
}

type mongoActor struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	Nickname     string `bson:"nickname"`
	Email        string `bson:"email,omitempty"`
	PasswordHash string `bson:"password_hash"`
	APIKey       string `bson:"api_key"`
	Role         string `bson:"role"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func toMongoActor(a *domain.Actor) mongoActor {
	return mongoActor{
		ID:           a.ID,
		Username:     a.Username,
		Nickname:     a.Nickname,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		APIKey:       a.APIKey,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt.Unix(),
		UpdatedAt:    a.UpdatedAt.Unix(),
	}
}

func (m mongoActor) toDomain() *domain.Actor {
	return &domain.Actor{
		ID:           m.ID,
		Username:     m.Username,
		Nickname:     m.Nickname,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		APIKey:       m.APIKey,
		Role:         domain.Role(m.Role),
		CreatedAt:    unixToTime(m.CreatedAt),
		UpdatedAt:    unixToTime(m.UpdatedAt),
	}
}

func (r *ActorRepository) Create(ctx context.Context, actor *domain.Actor) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}
	created := *actor
	created.ID = id

	if _, err := r.col.InsertOne(ctx, toMongoActor(&created)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrActorExists
		}
		return nil, fmt.Errorf("insert actor: %w", err)
	}
	return &created, nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id int64) (*domain.Actor, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ActorRepository) FindByUsername(ctx context.Context, username string) (*domain.Actor, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *ActorRepository) FindByAPIKey(ctx context.Context, apiKey string) (*domain.Actor, error) {
	if apiKey == "" {
		return nil, domain.ErrActorNotFound
	}
	return r.findOne(ctx, bson.M{"api_key": apiKey})
}

func (r *ActorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoActor
	if err := r.col.FindOne(ctx, filter).Decode(&ma); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("find actor: %w", err)
	}
	return ma.toDomain(), nil
}

// FindByIDs returns the actors among ids that exist, keyed by id.
func (r *ActorRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Actor, error) {
	out := make(map[int64]*domain.Actor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find actors: %w", err)
	}
	var docs []mongoActor
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode actors: %w", err)
	}
	for _, d := range docs {
		out[d.ID] = d.toDomain()
	}
	return out, nil
}

func (r *ActorRepository) UpdateAPIKey(ctx context.Context, id int64, apiKey string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"api_key": apiKey, "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("api key collision: %w", err)
		}
		return fmt.Errorf("update api key: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}

// EnsureIndexes creates the unique credential indexes on the actors collection.
func (r *ActorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "api_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "nickname", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// actorIDsByNickname returns the ids of actors whose nickname contains
// keyword, ignoring case.
func actorIDsByNickname(ctx context.Context, col *mongo.Collection, keyword string) ([]int64, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := col.Find(ctx, bson.M{"nickname": containsFold(keyword)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	var docs []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
