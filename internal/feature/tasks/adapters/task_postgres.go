// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fonds_backend/internal/feature/tasks/domain/entity"
	"fonds_backend/internal/feature/tasks/usecase"
)

// taskPostgres はTaskRepositoryインターフェースのPostgreSQL実装です。
type taskPostgres struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskPostgres)(nil)

// NewTaskRepository は指定されたDB接続でtaskPostgresの新しいインスタンスを生成します。
func NewTaskRepository(db *gorm.DB) *taskPostgres {
	return &taskPostgres{db: db}
}

// TaskModel はtasksテーブルの1行です。
type TaskModel struct {
	ID          uint    `gorm:"primaryKey"`
	UserID      uint    `gorm:"not null;index"`
	Name        string  `gorm:"size:255;not null"`
	Description *string `gorm:"size:1024"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TaskModel) TableName() string {
	return "tasks"
}

func toTaskEntity(m TaskModel) entity.Task {
	return entity.Task{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create はタスクを挿入し、採番されたIDを返します。
func (r *taskPostgres) Create(ctx context.Context, t *entity.Task) (uint, error) {
	m := TaskModel{
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// ListByUser はユーザーのタスクを作成順に返します。
func (r *taskPostgres) ListByUser(ctx context.Context, userID uint) ([]entity.Task, error) {
	var rows []TaskModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, toTaskEntity(m))
	}
	return out, nil
}

// Delete はユーザー自身のタスクを1件削除します。
// 該当行が無い場合は usecase.ErrTaskNotFound を返します。
func (r *taskPostgres) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&TaskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}
