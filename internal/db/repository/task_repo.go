// Package repository persists task outcomes for auditing and replay
// decisions.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// taskStore is the slice of pgxpool.Pool the repository needs.
type taskStore interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Task statuses mirror the result statuses on the wire.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// TaskRepository records the final state of each conversion task.
type TaskRepository struct {
	store taskStore
}

func NewTaskRepository(store taskStore) *TaskRepository {
	return &TaskRepository{store: store}
}

const upsertTask = `
INSERT INTO tasks (task_id, merchant_id, file_id, status, question_count, error_msg, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (task_id) DO UPDATE SET
	status = EXCLUDED.status,
	question_count = EXCLUDED.question_count,
	error_msg = EXCLUDED.error_msg,
	updated_at = now()`

// RecordCompleted upserts a completed task with its extracted question count.
func (r *TaskRepository) RecordCompleted(ctx context.Context, taskID, merchantID, fileID string, questionCount int) error {
	if _, err := r.store.Exec(ctx, upsertTask, taskID, merchantID, fileID, StatusCompleted, questionCount, ""); err != nil {
		return fmt.Errorf("record completed task: %w", err)
	}
	return nil
}

// RecordFailed upserts a permanently failed task with its error message.
func (r *TaskRepository) RecordFailed(ctx context.Context, taskID, merchantID, fileID, errMsg string) error {
	if _, err := r.store.Exec(ctx, upsertTask, taskID, merchantID, fileID, StatusFailed, 0, errMsg); err != nil {
		return fmt.Errorf("record failed task: %w", err)
	}
	return nil
}
