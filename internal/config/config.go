// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（MONGO_URI、JWT_SECRET、MinIO 凭据）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// 凭据单一数据源：密码/密钥只存在 .env / 环境变量中，YAML 不存储任何密码。
//
// 必需配置缺失时 Validate 返回错误，进程在启动阶段失败，
// 绝不允许带着空签名密钥进入请求处理。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port           string `yaml:"port"`
	BodyLimit      int64  `yaml:"body_limit"`       // urlencoded 请求体上限（字节）
	ParamLimit     int    `yaml:"param_limit"`      // urlencoded 参数个数上限
	MaxUploadSize  int64  `yaml:"max_upload_size"`  // multipart 请求体上限（字节）
	RequestTimeout string `yaml:"request_timeout"`  // 单次外部调用超时，如 "10s"
	ExposeErrors   bool   `yaml:"expose_errors"`    // 错误响应是否附带内部错误详情
	CORSOrigin     string `yaml:"cors_origin"`      // Access-Control-Allow-Origin，默认 "*"
}

// DatabaseConfig MongoDB 配置
type DatabaseConfig struct {
	URI  string `yaml:"-"` // 只从 MONGO_URI 环境变量读取
	Name string `yaml:"name"`
}

// MinIOConfig MinIO 对象存储配置
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`   // 例如 localhost:9000
	AccessKey string `yaml:"-"`          // 只从 MINIO_ROOT_USER 环境变量读取
	SecretKey string `yaml:"-"`          // 只从 MINIO_ROOT_PASSWORD 环境变量读取
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
	PublicURL string `yaml:"public_url"` // 对外访问基地址（CDN/反代），为空用 endpoint
}

// AuthConfig 认证配置
// JWTSecret 只从 JWT_SECRET 环境变量读取，不存储在 YAML 中
type AuthConfig struct {
	JWTSecret string `yaml:"-"`
	TokenTTL  string `yaml:"token_ttl"` // 例如 "720h"；空或 "0" 表示令牌不过期
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env            Environment
	Server         ServerConfig
	Database       DatabaseConfig
	MinIO          MinIOConfig
	Auth           AuthConfig
	RequestTimeout time.Duration // 解析后的 Server.RequestTimeout
	TokenTTL       time.Duration // 解析后的 Auth.TokenTTL，0 表示不过期
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
//  1. 加载 .env（敏感信息 + APP_ENV）
//  2. 根据 APP_ENV 加载 configs/{env}.yaml
//  3. 环境变量覆盖，构建最终配置
func Load() *Config {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	env := parseEnv(getEnv("APP_ENV", "dev"))
	yamlCfg := loadYAMLConfig(env)

	cfg := &Config{
		Env:      env,
		Server:   yamlCfg.Server,
		Database: yamlCfg.Database,
		MinIO:    yamlCfg.MinIO,
		Auth:     yamlCfg.Auth,
	}

	// 环境变量覆盖（敏感信息只来自这里）
	cfg.Database.URI = getEnv("MONGO_URI", "")
	cfg.Database.Name = getEnv("MONGO_DB", cfg.Database.Name)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", cfg.MinIO.Endpoint)
	cfg.MinIO.AccessKey = getEnv("MINIO_ROOT_USER", "")
	cfg.MinIO.SecretKey = getEnv("MINIO_ROOT_PASSWORD", "")
	cfg.MinIO.Bucket = getEnv("MINIO_BUCKET", cfg.MinIO.Bucket)
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	if v := getEnv("EXPOSE_ERRORS", ""); v != "" {
		cfg.Server.ExposeErrors, _ = strconv.ParseBool(v)
	}

	applyDefaults(cfg)
	return cfg
}

// applyDefaults 填充非敏感配置的默认值
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "5000"
	}
	if cfg.Server.BodyLimit <= 0 {
		cfg.Server.BodyLimit = 10000
	}
	if cfg.Server.ParamLimit <= 0 {
		cfg.Server.ParamLimit = 3
	}
	if cfg.Server.MaxUploadSize <= 0 {
		cfg.Server.MaxUploadSize = 8 << 20
	}
	if cfg.Server.CORSOrigin == "" {
		cfg.Server.CORSOrigin = "*"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "taskboard"
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "taskboard"
	}

	cfg.RequestTimeout = parseDuration(cfg.Server.RequestTimeout, 10*time.Second)
	cfg.TokenTTL = parseDuration(cfg.Auth.TokenTTL, 0)
}

// Validate 校验必需配置，返回的错误列出所有缺失项
//
// 必需项：MONGO_URI、JWT_SECRET、MINIO_ROOT_USER、MINIO_ROOT_PASSWORD、
// minio endpoint。进程必须在启动阶段失败，而不是在请求处理时。
func (c *Config) Validate() error {
	var missing []string
	if c.Database.URI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.MinIO.AccessKey == "" {
		missing = append(missing, "MINIO_ROOT_USER")
	}
	if c.MinIO.SecretKey == "" {
		missing = append(missing, "MINIO_ROOT_PASSWORD")
	}
	if c.MinIO.Endpoint == "" {
		missing = append(missing, "minio endpoint (MINIO_ENDPOINT or minio.endpoint)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// String 返回脱敏后的配置描述（日志用）
func (c *Config) String() string {
	return fmt.Sprintf("env=%s port=%s db=%s minio=%s bucket=%s token_ttl=%s",
		c.Env, c.Server.Port, c.Database.Name, c.MinIO.Endpoint, c.MinIO.Bucket, c.TokenTTL)
}

// loadYAMLConfig 加载 YAML 配置文件，文件不存在时返回零值
func loadYAMLConfig(env Environment) *YAMLConfig {
	cfg := &YAMLConfig{}

	filename := fmt.Sprintf("%s.yaml", env)
	for _, dir := range configPaths {
		path := filepath.Join(dir, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err == nil {
			return cfg
		}
	}
	return cfg
}

func parseEnv(s string) Environment {
	switch Environment(s) {
	case EnvProduction, EnvTest, EnvDevelopment:
		return Environment(s)
	}
	return EnvDevelopment
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" || s == "0" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
