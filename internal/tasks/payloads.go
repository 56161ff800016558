package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeContactMessageNotify = "notify:contact-message"
	TypeJobApplicationNotify = "notify:job-application"
)

// NotifyPayload 描述一次后台通知所需的最小信息。
type NotifyPayload struct {
	ID            string `json:"id"`
	CorrelationID string `json:"correlation_id"`
}

// NewContactMessageNotifyTask 构造联系留言的管理员通知任务。
func NewContactMessageNotifyTask(id, correlationID string) (*asynq.Task, error) {
	return newNotifyTask(TypeContactMessageNotify, id, correlationID)
}

// NewJobApplicationNotifyTask 构造求职申请的管理员通知任务。
func NewJobApplicationNotifyTask(id, correlationID string) (*asynq.Task, error) {
	return newNotifyTask(TypeJobApplicationNotify, id, correlationID)
}

func newNotifyTask(taskType, id, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(NotifyPayload{
		ID:            id,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, payload), nil
}
