// Package queue moves conversion tasks and results over Redis Streams.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/questionhub/document-service/internal/extract"
)

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// bodyField carries the JSON payload inside a stream entry.
const bodyField = "body"

// ConvertTask is the intake message: one document to convert.
type ConvertTask struct {
	TaskID     string `json:"task_id"`
	MerchantID string `json:"merchant_id"`
	FileID     string `json:"file_id"`
	FileURL    string `json:"file_url"`
}

// ConvertResult is published back once a task finishes either way.
type ConvertResult struct {
	TaskID   string                   `json:"task_id"`
	Status   string                   `json:"status"`
	Result   []extract.QuestionRecord `json:"result,omitempty"`
	ErrorMsg string                   `json:"error_msg,omitempty"`
}

// decodeTask parses a stream entry's values into a task.
func decodeTask(values map[string]interface{}) (ConvertTask, error) {
	raw, ok := values[bodyField].(string)
	if !ok {
		return ConvertTask{}, fmt.Errorf("stream entry has no %s field", bodyField)
	}
	var task ConvertTask
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return ConvertTask{}, fmt.Errorf("decode task payload: %w", err)
	}
	if task.TaskID == "" {
		return ConvertTask{}, fmt.Errorf("task payload missing task_id")
	}
	return task, nil
}
