// Package storage 定义存储层领域错误
//
// 这些错误用于隔离业务层与底层存储引擎的错误类型，
// 驱动实现（mongostore）负责将底层错误转换为这些领域错误。
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 mongo.ErrNoDocuments
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突
	// 唯一索引是 email / owner 唯一性的最终裁决，
	// 业务层的预检查只负责给出更友好的错误信息。
	ErrDuplicate = errors.New("duplicate: entity already exists")
)
