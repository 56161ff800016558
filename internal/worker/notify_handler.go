// Package worker contains the asynq task handlers run by cmd/worker.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"corpsite/internal/database"
	"corpsite/internal/tasks"
)

// NotifyHandler 消费通知任务：重读对应行、输出管理员通知日志并回填
// notified_at。行已被删除时任务视为完成（留言/申请可能在处理前被后台删掉）。
type NotifyHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewNotifyHandler 构造 NotifyHandler。
func NewNotifyHandler(db *gorm.DB, logger *slog.Logger) *NotifyHandler {
	return &NotifyHandler{db: db, logger: logger}
}

// ProcessTask implements asynq.Handler for both notify task types.
func (h *NotifyHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.NotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}

	logger := h.logger.With(
		slog.String("task_type", task.Type()),
		slog.String("correlation_id", payload.CorrelationID),
	)

	switch task.Type() {
	case tasks.TypeContactMessageNotify:
		return h.notifyContactMessage(ctx, logger, payload.ID)
	case tasks.TypeJobApplicationNotify:
		return h.notifyJobApplication(ctx, logger, payload.ID)
	default:
		return fmt.Errorf("unexpected task type %q", task.Type())
	}
}

func (h *NotifyHandler) notifyContactMessage(ctx context.Context, logger *slog.Logger, id string) error {
	var row database.ContactMessage
	err := h.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.Warn("contact message vanished before notification", slog.String("id", id))
		return nil
	case err != nil:
		return fmt.Errorf("load contact message %s: %w", id, err)
	}

	logger.Info("new contact message received",
		slog.String("id", row.ID),
		slog.String("name", row.Name),
		slog.String("email", row.Email),
		slog.String("subject", row.Subject),
	)

	return h.markNotified(ctx, &database.ContactMessage{}, id)
}

func (h *NotifyHandler) notifyJobApplication(ctx context.Context, logger *slog.Logger, id string) error {
	var row database.JobApplication
	err := h.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.Warn("job application vanished before notification", slog.String("id", id))
		return nil
	case err != nil:
		return fmt.Errorf("load job application %s: %w", id, err)
	}

	logger.Info("new job application received",
		slog.String("id", row.ID),
		slog.String("job_id", row.JobID),
		slog.String("name", row.Name),
		slog.String("email", row.Email),
		slog.String("resume_url", row.ResumeURL),
	)

	return h.markNotified(ctx, &database.JobApplication{}, id)
}

func (h *NotifyHandler) markNotified(ctx context.Context, model any, id string) error {
	err := h.db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Update("notified_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("mark notified %s: %w", id, err)
	}
	return nil
}
