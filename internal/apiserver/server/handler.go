// Package server 路由配置与核心基础设施
//
// 本包将请求分发到各领域独立包（auth、task），并承载横切关注点：
//   - metrics.go: Prometheus 指标
//   - middleware.go: CORS、urlencoded 请求体限制
package server

import (
	"net/http"

	"taskboard/internal/apiserver/auth"
	"taskboard/internal/apiserver/task"
	"taskboard/internal/config"
	"taskboard/internal/shared/storage"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责路由请求到对应的领域处理器。
type Handler struct {
	store    storage.PersistentStore
	uploader auth.Uploader // MinIO 客户端；测试中可注入替身
	cfg      *config.Config
	metrics  *Metrics
}

// NewHandler 创建 Handler 实例
func NewHandler(store storage.PersistentStore, uploader auth.Uploader, cfg *config.Config) *Handler {
	return &Handler{
		store:    store,
		uploader: uploader,
		cfg:      cfg,
		metrics:  NewMetrics(),
	}
}

// authConfig 由应用配置构建认证配置
func (h *Handler) authConfig() auth.Config {
	return auth.Config{
		JWTSecret:      h.cfg.Auth.JWTSecret,
		TokenTTL:       h.cfg.TokenTTL,
		MaxUploadSize:  h.cfg.Server.MaxUploadSize,
		RequestTimeout: h.cfg.RequestTimeout,
		ExposeErrors:   h.cfg.Server.ExposeErrors,
	}
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 认证（公开）:
//   - POST /register - 注册（multipart，可附带 profile 文件）
//   - POST /login    - 登录，签发 Bearer Token
//   - GET  /logout   - 无状态登出确认
//
// 任务管理（需 Bearer Token）:
//   - GET    /tasks      - 列出任务（owner 全部 / member 自己的）
//   - POST   /tasks      - 创建任务
//   - GET    /tasks/{id} - 获取任务详情
//   - PUT    /tasks/{id} - 更新任务
//   - DELETE /tasks/{id} - 删除任务
//
// 运维:
//   - GET /health  - 健康检查
//   - GET /metrics - Prometheus 指标
//
// 中间件链（外 → 内）：指标 → CORS → 请求体限制 → 认证
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// 认证接口
	authCfg := h.authConfig()
	authHandler := auth.NewHandler(h.store, h.uploader, authCfg)
	authHandler.RegisterRoutes(mux)

	// 任务接口
	taskHandler := task.NewHandler(h.store)
	taskHandler.RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = BodyLimitMiddleware(h.cfg.Server.BodyLimit, h.cfg.Server.ParamLimit)(handler)
	handler = CORSMiddleware(h.cfg.Server.CORSOrigin)(handler)
	handler = h.metrics.MetricsMiddleware(handler)
	return handler
}
