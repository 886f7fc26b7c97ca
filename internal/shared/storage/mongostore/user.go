package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"taskboard/internal/shared/model"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

// GetOwner 查找 owner 用户，不存在时返回 (nil, nil)
func (s *Store) GetOwner(ctx context.Context) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers),
		bson.D{{Key: "status", Value: string(model.UserStatusOwner)}})
}
