// Package scheduler provides the asynq-backed background job client and
// worker. The API process enqueues delayed tasks; the worker process
// executes them when due.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskServiceReminder = "reminders.service.due"

// ServiceReminderPayload identifies a service reminder due for delivery.
type ServiceReminderPayload struct {
	ReminderID string `json:"reminderId"`
	ShopID     string `json:"shopId"`
}

// NewServiceReminderTask builds the asynq task for a due reminder.
func NewServiceReminderTask(payload ServiceReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskServiceReminder, data), nil
}

// ParseServiceReminderPayload decodes a service reminder task payload.
func ParseServiceReminderPayload(task *asynq.Task) (ServiceReminderPayload, error) {
	var payload ServiceReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ServiceReminderPayload{}, err
	}
	return payload, nil
}
