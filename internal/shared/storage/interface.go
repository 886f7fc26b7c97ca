package storage

import (
	"context"

	"taskboard/internal/shared/model"
)

// UserStore 用户持久化接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetOwner(ctx context.Context) (*model.User, error)
}

// TaskStore 任务持久化接口
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*model.Task, error)
	ListAllTasks(ctx context.Context) ([]*model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// PersistentStore 聚合接口，api-server 启动时注入
type PersistentStore interface {
	UserStore
	TaskStore
	Close() error
}
