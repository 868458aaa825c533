// Package usecase はtasksフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"fonds_backend/internal/feature/tasks/domain/entity"
)

var (
	// ErrTaskNotFound is returned when a task does not exist or belongs to another user.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyTaskName is returned when a task is created without a name.
	ErrEmptyTaskName = errors.New("task name must not be empty")
)

// TaskRepository はタスクの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TaskRepository interface {
	// Create persists a new task and returns its generated ID.
	Create(ctx context.Context, task *entity.Task) (uint, error)

	// ListByUser returns all tasks belonging to the given user.
	ListByUser(ctx context.Context, userID uint) ([]entity.Task, error)

	// Delete removes one task owned by the user.
	// It returns ErrTaskNotFound if no such task exists.
	Delete(ctx context.Context, userID, taskID uint) error
}

// TaskUsecase はタスクCRUDのユースケースを実装します。
type TaskUsecase struct {
	tasks TaskRepository
}

// NewTaskUsecase はTaskUsecaseの新しいインスタンスを生成します。
func NewTaskUsecase(tasks TaskRepository) *TaskUsecase {
	return &TaskUsecase{tasks: tasks}
}

// AddTask は新しいタスクを作成し、そのIDを返します。
func (tu *TaskUsecase) AddTask(ctx context.Context, userID uint, name string, description *string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyTaskName
	}
	return tu.tasks.Create(ctx, &entity.Task{
		UserID:      userID,
		Name:        name,
		Description: description,
	})
}

// ListTasks はユーザーの全タスクを返します。
func (tu *TaskUsecase) ListTasks(ctx context.Context, userID uint) ([]entity.Task, error) {
	return tu.tasks.ListByUser(ctx, userID)
}

// DeleteTask はユーザー自身のタスクを1件削除します。
func (tu *TaskUsecase) DeleteTask(ctx context.Context, userID, taskID uint) error {
	return tu.tasks.Delete(ctx, userID, taskID)
}
