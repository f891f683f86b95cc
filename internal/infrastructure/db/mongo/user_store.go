package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authuser/accounts/internal/core/domain"
)

// UserStore implements ports.UserStore using MongoDB. Role membership is
// embedded in the user document.
type UserStore struct {
	users    *mongo.Collection
	roles    *mongo.Collection
	counters *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{
		users:    db.Collection(collectionUsers),
		roles:    db.Collection(collectionRoles),
		counters: db.Collection(collectionCounters),
	}
}

type mongoUser struct {
	ID              string    `bson:"_id"`
	Email           string    `bson:"email"`
	NormalizedEmail string    `bson:"normalized_email"`
	PasswordHash    string    `bson:"password_hash"`
	Roles           []string  `bson:"roles"`
	CreatedAt       time.Time `bson:"created_at"`
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Create reserves the next ordinal with an atomic $inc, then inserts the user
// document with its role already embedded, so a stored user always carries
// its role. A failed insert hands the ordinal back when no later create has
// reserved one since.
func (r *UserStore) Create(ctx context.Context, user *domain.User, assign domain.RoleAssigner) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c counter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionUsers},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next user ordinal: %w", err)
	}

	role := assign(c.Seq)
	n, err := r.roles.CountDocuments(ctx, bson.M{"name": role})
	if err != nil {
		r.release(c.Seq)
		return 0, fmt.Errorf("check role %s: %w", role, err)
	}
	if n == 0 {
		r.release(c.Seq)
		return 0, domain.ErrRoleNotFound
	}

	doc := mongoUser{
		ID:              user.ID,
		Email:           user.Email,
		NormalizedEmail: user.NormalizedEmail,
		PasswordHash:    user.PasswordHash,
		Roles:           []string{role},
		CreatedAt:       user.CreatedAt.UTC(),
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		r.release(c.Seq)
		if mongo.IsDuplicateKeyError(err) {
			return 0, domain.IdentityErrors{domain.DuplicateEmailError(user.Email)}
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return c.Seq, nil
}

// release decrements the users counter only if it still equals ordinal.
func (r *UserStore) release(ordinal int64) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, _ = r.counters.UpdateOne(ctx,
		bson.M{"_id": collectionUsers, "seq": ordinal},
		bson.M{"$inc": bson.M{"seq": -1}},
	)
}

func (r *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var mu mongoUser
	err := r.users.FindOne(ctx, bson.M{"normalized_email": domain.NormalizeEmail(email)}).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:              mu.ID,
		Email:           mu.Email,
		NormalizedEmail: mu.NormalizedEmail,
		PasswordHash:    mu.PasswordHash,
		Roles:           mu.Roles,
		CreatedAt:       mu.CreatedAt.UTC(),
	}, nil
}

func (r *UserStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
