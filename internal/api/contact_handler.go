package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"corpsite/internal/api/middleware"
	"corpsite/internal/database"
	"corpsite/internal/resource"
	"corpsite/internal/tasks"
)

// ContactHandler 负责联系表单留言的 CRUD。
type ContactHandler struct {
	repo        *resource.Repository[database.ContactMessage]
	asynqClient *asynq.Client
}

// NewContactHandler 构造 ContactHandler。asynqClient 可为 nil（不发通知）。
func NewContactHandler(db *gorm.DB, asynqClient *asynq.Client) *ContactHandler {
	return &ContactHandler{
		repo:        resource.NewRepository[database.ContactMessage](db, "created_at DESC"),
		asynqClient: asynqClient,
	}
}

type contactMessageDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

func mapContactRow(row database.ContactMessage) contactMessageDTO {
	return contactMessageDTO{
		ID:      row.ID,
		Name:    row.Name,
		Email:   row.Email,
		Subject: row.Subject,
		Message: row.Message,
		Date:    isoString(row.CreatedAt),
	}
}

type contactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r *contactMessageRequest) validate() string {
	switch {
	case blank(r.Name):
		return "name is required"
	case blank(r.Email):
		return "email is required"
	case blank(r.Subject):
		return "subject is required"
	case blank(r.Message):
		return "message is required"
	}
	return ""
}

// List 返回全部留言（按创建时间倒序）。
func (h *ContactHandler) List(c *gin.Context) {
	rows, err := h.repo.List(c.Request.Context())
	if err != nil {
		logError(c, "list contact messages", err)
		Internal(c, "failed to list contact messages")
		return
	}

	data := make([]contactMessageDTO, 0, len(rows))
	for _, row := range rows {
		data = append(data, mapContactRow(row))
	}
	Data(c, http.StatusOK, data)
}

// Get 返回单条留言。
func (h *ContactHandler) Get(c *gin.Context) {
	row, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapContactRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Contact message not found")
	default:
		logError(c, "get contact message", err)
		Internal(c, "failed to get contact message")
	}
}

// Create 插入留言并重读返回，同时发出后台通知任务。
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	row := database.ContactMessage{
		ID:      newID(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}

	if err := h.repo.Create(ctx, &row); err != nil {
		logError(c, "create contact message", err)
		Internal(c, "failed to create contact message")
		return
	}

	created, err := h.repo.Get(ctx, row.ID)
	if err != nil {
		logError(c, "reread contact message", err)
		Internal(c, "failed to read contact message after insert")
		return
	}

	h.notify(c, created.ID)
	Data(c, http.StatusCreated, mapContactRow(*created))
}

// Update 全字段更新留言（管理后台修订用）。
func (h *ContactHandler) Update(c *gin.Context) {
	var req contactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		BadRequest(c, msg)
		return
	}

	values := map[string]any{
		"name":    strings.TrimSpace(req.Name),
		"email":   strings.TrimSpace(req.Email),
		"subject": strings.TrimSpace(req.Subject),
		"message": strings.TrimSpace(req.Message),
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.repo.Update(ctx, id, values); err != nil {
		logError(c, "update contact message", err)
		Internal(c, "failed to update contact message")
		return
	}

	row, err := h.repo.Get(ctx, id)
	switch {
	case err == nil:
		Data(c, http.StatusOK, mapContactRow(*row))
	case errors.Is(err, resource.ErrNotFound):
		NotFound(c, "Contact message not found")
	default:
		logError(c, "reread contact message", err)
		Internal(c, "failed to read contact message after update")
	}
}

// Delete 删除留言。
func (h *ContactHandler) Delete(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		Deleted(c)
	case errors.Is(err, resource.ErrDeleteFailed):
		Internal(c, "Failed to delete contact message")
	default:
		logError(c, "delete contact message", err)
		Internal(c, "failed to delete contact message")
	}
}

// notify 发出后台通知任务；失败只记日志。
func (h *ContactHandler) notify(c *gin.Context, id string) {
	if h.asynqClient == nil {
		return
	}
	task, err := tasks.NewContactMessageNotifyTask(id, middleware.GetCorrelationID(c))
	if err != nil {
		logError(c, "build contact notify task", err)
		return
	}
	if _, err := h.asynqClient.EnqueueContext(c.Request.Context(), task); err != nil {
		logError(c, "enqueue contact notify task", err)
		return
	}
	middleware.LoggerFromContext(c).Info("contact notify task enqueued",
		slog.String("message_id", id),
	)
}
