package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/shared/model"
	"taskboard/internal/shared/storage"
)

// Uploader 头像上传接口，注册时可选调用
type Uploader interface {
	UploadProfilePicture(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// Handler 认证 HTTP 处理器
type Handler struct {
	store    storage.UserStore
	uploader Uploader
	cfg      Config
}

// NewHandler 创建认证处理器
func NewHandler(store storage.UserStore, uploader Uploader, cfg Config) *Handler {
	return &Handler{store: store, uploader: uploader, cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /logout", h.Logout)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ============================================================================
// Handlers
// ============================================================================

// Register 用户注册
//
// POST /register，multipart/form-data：
// username, email, gender, password, status, designation + 可选文件字段 profile
//
// 处理顺序固定：字段校验 → 邮箱格式 → 邮箱占用预检 → owner 唯一预检 →
// 密码哈希 → 头像上传（如有）→ 生成 userId → 落库。
// 头像上传严格先于落库，上传失败时不会产生用户记录。
// 并发竞争下预检可能同时通过，最终以存储层唯一索引冲突为准。
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := h.parseRegisterForm(w, r); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		h.writeError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	gender := r.FormValue("gender")
	password := r.FormValue("password")
	status := r.FormValue("status")
	designation := r.FormValue("designation")

	if username == "" || email == "" || password == "" || status == "" || designation == "" {
		h.writeError(w, http.StatusBadRequest,
			"Please provide all required fields: username, email, password, status, designation", nil)
		return
	}
	if !isValidEmail(email) {
		h.writeError(w, http.StatusBadRequest, "Invalid email format", nil)
		return
	}

	// 邮箱占用预检（友好报错；最终裁决在唯一索引）
	existing, err := h.getUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[auth.register] GetUserByEmail error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Error creating user", err)
		return
	}
	if existing != nil {
		h.writeError(w, http.StatusBadRequest, "Email already in use", nil)
		return
	}

	// owner 全系统唯一预检
	if model.UserStatus(status) == model.UserStatusOwner {
		owner, err := h.getOwner(r.Context())
		if err != nil {
			log.Printf("[auth.register] GetOwner error: %v", err)
			h.writeError(w, http.StatusInternalServerError, "Error creating user", err)
			return
		}
		if owner != nil {
			h.writeError(w, http.StatusBadRequest, "Only one owner can sign up", nil)
			return
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		log.Printf("[auth.register] HashPassword error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Error creating user", err)
		return
	}

	// 头像上传（可选分支），失败则整个注册失败，不落库
	var profilePicture *string
	file, header, err := r.FormFile("profile")
	switch {
	case err == nil:
		defer file.Close()
		url, upErr := h.uploadProfile(r.Context(), header.Filename, file, header.Size,
			header.Header.Get("Content-Type"))
		if upErr != nil {
			log.Printf("[auth.register] upload error: %v", upErr)
			h.writeError(w, http.StatusInternalServerError, "Error uploading profile picture", upErr)
			return
		}
		profilePicture = &url
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// 无附件（或 urlencoded 表单），profilePicture 保持 null
	default:
		h.writeError(w, http.StatusBadRequest, "Invalid profile upload", err)
		return
	}

	now := time.Now()
	user := &model.User{
		UserID:         uuid.NewString(),
		Username:       username,
		Email:          email,
		Gender:         gender,
		Password:       hash,
		Status:         model.UserStatus(status),
		Designation:    designation,
		ProfilePicture: profilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.createUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// 预检后另一请求抢先插入；重查邮箱以区分是邮箱冲突还是 owner 冲突
			h.writeError(w, http.StatusBadRequest, h.conflictMessage(r.Context(), email), nil)
			return
		}
		log.Printf("[auth.register] CreateUser error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Error creating user", err)
		return
	}

	log.Printf("[auth] User registered: %s (%s)", user.Email, user.UserID)
	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User created successfully",
		User:    user,
	})
}

// Login 用户登录
//
// POST /login，JSON：{email, password}
// 成功返回 200 {token, user}；未知邮箱 404，密码错误 401。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Please provide both email and password", nil)
		return
	}
	if !isValidEmail(req.Email) {
		h.writeError(w, http.StatusBadRequest, "Invalid email format", nil)
		return
	}

	user, err := h.getUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("[auth.login] GetUserByEmail error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Error logging in", err)
		return
	}
	if user == nil {
		h.writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	if !CheckPassword(req.Password, user.Password) {
		h.writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := GenerateToken(h.cfg, user.UserID, user.Email, string(user.Status))
	if err != nil {
		log.Printf("[auth.login] GenerateToken error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Error logging in", err)
		return
	}

	log.Printf("[auth] User logged in: %s", user.Email)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout 登出
//
// GET /logout，无状态确认，不做令牌失效，总是 200。
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// ============================================================================
// 内部辅助
// ============================================================================

// parseRegisterForm 解析注册表单，multipart 与 urlencoded 都接受。
// ParseMultipartForm 的参数只是内存阈值，请求体上限由 MaxBytesReader 保证
func (h *Handler) parseRegisterForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize())
	err := r.ParseMultipartForm(h.maxUploadSize())
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func (h *Handler) maxUploadSize() int64 {
	if h.cfg.MaxUploadSize > 0 {
		return h.cfg.MaxUploadSize
	}
	return 8 << 20
}

// opCtx 为单次外部调用加超时
func (h *Handler) opCtx(parent context.Context) (context.Context, context.CancelFunc) {
	if h.cfg.RequestTimeout > 0 {
		return context.WithTimeout(parent, h.cfg.RequestTimeout)
	}
	return context.WithCancel(parent)
}

func (h *Handler) getUserByEmail(parent context.Context, email string) (*model.User, error) {
	ctx, cancel := h.opCtx(parent)
	defer cancel()
	return h.store.GetUserByEmail(ctx, email)
}

func (h *Handler) getOwner(parent context.Context) (*model.User, error) {
	ctx, cancel := h.opCtx(parent)
	defer cancel()
	return h.store.GetOwner(ctx)
}

func (h *Handler) createUser(parent context.Context, user *model.User) error {
	ctx, cancel := h.opCtx(parent)
	defer cancel()
	return h.store.CreateUser(ctx, user)
}

func (h *Handler) uploadProfile(parent context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if h.uploader == nil {
		return "", errors.New("object storage not configured")
	}
	ctx, cancel := h.opCtx(parent)
	defer cancel()
	return h.uploader.UploadProfilePicture(ctx, filename, reader, size, contentType)
}

// conflictMessage 插入冲突后重查邮箱，区分邮箱冲突与 owner 冲突
func (h *Handler) conflictMessage(ctx context.Context, email string) string {
	if u, err := h.getUserByEmail(ctx, email); err == nil && u != nil {
		return "Email already in use"
	}
	return "Only one owner can sign up"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError 输出 {message, error?}，error 详情由配置开关控制
func (h *Handler) writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"message": message}
	if err != nil && h.cfg.ExposeErrors {
		body["error"] = err.Error()
	}
	writeJSON(w, status, body)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
