package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/authuser/accounts/internal/core/domain"
)

// RoleStore implements ports.RoleStore using MongoDB.
type RoleStore struct {
	col *mongo.Collection
}

func NewRoleStore(db *mongo.Database) *RoleStore {
	return &RoleStore{col: db.Collection(collectionRoles)}
}

func (r *RoleStore) Exists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("role exists: %w", err)
	}
	return n > 0, nil
}

func (r *RoleStore) Create(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, bson.M{"name": name, "created_at": time.Now().UTC()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleExists
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}
