// Package model 领域实体定义
//
// 实体通过 bson tag 映射到 MongoDB 文档，通过 json tag 映射到 API 响应。
// 本包不依赖任何存储驱动。
package model

import "time"

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus 校验任务状态取值
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task 任务
//
// UserID 记录创建者，用于归属检查：member 只能访问自己的任务，owner 不受限。
type Task struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"user_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      TaskStatus `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}
