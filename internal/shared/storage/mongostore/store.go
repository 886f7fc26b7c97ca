// Package mongostore 实现基于 MongoDB 的 PersistentStore
//
// 使用 mongo-go-driver v2，通过 bson tag 实现 model 结构体的序列化/反序列化。
// 所有 Collection 名称和索引在 ensureIndexes 中统一管理。
//
// 唯一性约束在这里落地：
//   - users.email 唯一索引
//   - users.status == "owner" 部分唯一索引（全系统最多一个 owner）
//
// 业务层的"先查后插"只用于生成可读的错误信息，
// 并发竞争下以这里的索引冲突（ErrDuplicate）为准。
package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"taskboard/internal/shared/model"
)

// Collection 名称常量
const (
	ColUsers = "users"
	ColTasks = "tasks"
)

// Store 实现 storage.PersistentStore 接口的 MongoDB 驱动
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore 创建 MongoDB 存储实例
//
// uri: MongoDB 连接 URI，如 "mongodb://localhost:27017"
// dbName: 数据库名称，如 "taskboard"
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	// 验证连接
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{client: client, db: db}

	// 创建索引；唯一索引失败必须让启动失败，否则唯一性保证丢失
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongostore: ensure indexes failed: %w", err)
	}

	log.Printf("[mongostore] Connected to %s (db=%s)", uri, dbName)
	return s, nil
}

// Close 关闭 MongoDB 连接
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// col 获取指定 Collection
func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ensureIndexes 创建所有必要的索引
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col     string
		keys    bson.D
		unique  bool
		partial bson.D // 部分索引过滤条件，nil 表示全量索引
	}

	indexes := []idx{
		// users：email 全局唯一
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true, nil},
		// users：owner 全系统唯一（部分唯一索引只覆盖 status == "owner" 的文档）
		{ColUsers, bson.D{{Key: "status", Value: 1}}, true,
			bson.D{{Key: "status", Value: string(model.UserStatusOwner)}}},

		// tasks
		{ColTasks, bson.D{{Key: "user_id", Value: 1}}, false, nil},
		{ColTasks, bson.D{{Key: "created_at", Value: -1}}, false, nil},
	}

	for _, i := range indexes {
		m := mongo.IndexModel{Keys: i.keys}
		if i.unique || i.partial != nil {
			opts := options.Index()
			if i.unique {
				opts = opts.SetUnique(true)
			}
			if i.partial != nil {
				opts = opts.SetPartialFilterExpression(i.partial)
			}
			m.Options = opts
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, m); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
