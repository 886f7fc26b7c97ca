// Package objstore 封装 MinIO 对象存储客户端
//
// 注册流程中上传头像使用：文件先上传，成功拿到 URL 之后才落库，
// 上传失败时整个注册请求失败，不会产生"有用户没头像"的半截状态。
package objstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"taskboard/internal/config"
)

// ProfileFolder 头像对象的统一前缀
const ProfileFolder = "profile_pictures"

// Client MinIO 客户端封装
type Client struct {
	mc        *minio.Client
	bucket    string
	publicURL string // 对外访问基地址；为空时用 endpoint 拼接
}

// NewClient 创建 MinIO 客户端
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access_key and secret_key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "taskboard"
	}

	return &Client{mc: mc, bucket: bucket, publicURL: strings.TrimSuffix(cfg.PublicURL, "/")}, nil
}

// EnsureBucket 确保 bucket 存在
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		log.Printf("[objstore] Created bucket: %s", c.bucket)
	}
	return nil
}

// UploadProfilePicture 上传头像并返回可访问的 URL
//
// 对象键格式：profile_pictures/<uuid><ext>，uuid 保证互不覆盖。
// filename 只用于保留扩展名。
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := ProfileFolder + "/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := c.mc.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return c.ObjectURL(key), nil
}

// ObjectURL 返回对象的对外访问 URL
func (c *Client) ObjectURL(key string) string {
	if c.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", c.publicURL, c.bucket, key)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.mc.EndpointURL().String(), "/"), c.bucket, key)
}

// Delete 删除对象（测试清理用）
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}
