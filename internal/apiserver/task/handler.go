// Package task 任务领域 - HTTP 处理
//
// 所有任务路由要求 Bearer Token（由 auth.Middleware 注入 AuthUser）。
// 归属规则：member 只能访问自己创建的任务，owner 不受限。
package task

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/apiserver/auth"
	"taskboard/internal/shared/model"
	"taskboard/internal/shared/storage"
)

// Handler 任务领域 HTTP 处理器
type Handler struct {
	store storage.TaskStore
}

// NewHandler 创建任务处理器
func NewHandler(store storage.TaskStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册任务相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /tasks", h.List)
	mux.HandleFunc("POST /tasks", h.Create)
	mux.HandleFunc("GET /tasks/{id}", h.Get)
	mux.HandleFunc("PUT /tasks/{id}", h.Update)
	mux.HandleFunc("DELETE /tasks/{id}", h.Delete)
}

// ============================================================================
// 请求类型
// ============================================================================

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// ============================================================================
// HTTP 处理函数
// ============================================================================

// Create 创建任务
// POST /tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetAuthUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now()
	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateTask(r.Context(), task); err != nil {
		log.Printf("[task] Create error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// List 列出任务
// GET /tasks
// owner 看到全部任务，member 只看到自己创建的
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetAuthUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var (
		tasks []*model.Task
		err   error
	)
	if user.Status == string(model.UserStatusOwner) {
		tasks, err = h.store.ListAllTasks(r.Context())
	} else {
		tasks, err = h.store.ListTasks(r.Context(), user.ID)
	}
	if err != nil {
		log.Printf("[task] List error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Get 获取任务详情
// GET /tasks/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update 更新任务
// PUT /tasks/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			writeError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !model.ValidTaskStatus(model.TaskStatus(*req.Status)) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		task.Status = model.TaskStatus(*req.Status)
	}
	task.UpdatedAt = time.Now()

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		log.Printf("[task] Update error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete 删除任务
// DELETE /tasks/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteTask(r.Context(), task.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		log.Printf("[task] Delete error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// loadOwned 加载任务并做归属检查；失败时已写好响应，返回 ok=false
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*model.Task, bool) {
	user := auth.GetAuthUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}

	id := r.PathValue("id")
	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		log.Printf("[task] Get error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return nil, false
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return nil, false
	}
	if user.Status != string(model.UserStatusOwner) && task.UserID != user.ID {
		writeError(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return task, true
}
