package objstore

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"taskboard/internal/config"
)

// testClient 创建测试用客户端，MinIO 不可达时跳过
func testClient(t *testing.T) *Client {
	t.Helper()

	endpoint := os.Getenv("MINIO_TEST_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	c, err := NewClient(config.MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: envOr("MINIO_TEST_ACCESS_KEY", "minioadmin"),
		SecretKey: envOr("MINIO_TEST_SECRET_KEY", "minioadmin"),
		Bucket:    "taskboard-test",
	})
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	if err := c.EnsureBucket(context.Background()); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	return c
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
	}{
		{"缺少 endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "b"}},
		{"缺少凭据", config.MinIOConfig{Endpoint: "localhost:9000"}},
		{"缺少 secret", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestObjectURL(t *testing.T) {
	c := &Client{bucket: "taskboard", publicURL: "https://cdn.example.com"}
	got := c.ObjectURL("profile_pictures/abc.png")
	want := "https://cdn.example.com/taskboard/profile_pictures/abc.png"
	if got != want {
		t.Errorf("ObjectURL = %q, want %q", got, want)
	}
}

func TestUploadProfilePicture(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	data := []byte("fake png bytes")
	url, err := c.UploadProfilePicture(ctx, "avatar.PNG", bytes.NewReader(data), int64(len(data)), "image/png")
	if err != nil {
		t.Fatalf("UploadProfilePicture: %v", err)
	}
	if url == "" {
		t.Fatal("Expected non-empty URL")
	}
	if !strings.Contains(url, ProfileFolder+"/") {
		t.Errorf("URL %q should contain folder %q", url, ProfileFolder)
	}
	// 扩展名统一小写
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("URL %q should end with .png", url)
	}

	// 清理
	idx := strings.Index(url, ProfileFolder+"/")
	c.Delete(ctx, url[idx:])
}
