package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"taskboard/internal/shared/model"
)

// ============================================================================
// TaskStore
// ============================================================================

func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	return insertOne(ctx, s.col(ColTasks), task)
}

func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return findOne[model.Task](ctx, s.col(ColTasks), bson.D{{Key: "_id", Value: id}})
}

// ListTasks 列出指定用户创建的任务，按创建时间倒序
func (s *Store) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Task](ctx, s.col(ColTasks), bson.D{{Key: "user_id", Value: userID}}, opts)
}

// ListAllTasks 列出全部任务（owner 视角）
func (s *Store) ListAllTasks(ctx context.Context) ([]*model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Task](ctx, s.col(ColTasks), bson.D{}, opts)
}

func (s *Store) UpdateTask(ctx context.Context, task *model.Task) error {
	return replaceByID(ctx, s.col(ColTasks), task.ID, task)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColTasks), id)
}
