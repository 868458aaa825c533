// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fonds_backend/internal/feature/tasks/domain/entity"
	"fonds_backend/internal/feature/tasks/transport/http/dto"
	"fonds_backend/internal/feature/tasks/usecase"
	jwtmw "fonds_backend/internal/platform/jwt"
)

// TaskUsecase はタスク操作のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TaskUsecase interface {
	AddTask(ctx context.Context, userID uint, name string, description *string) (uint, error)
	ListTasks(ctx context.Context, userID uint) ([]entity.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uint) error
}

// ReportUsecase はレポートジョブの投入インターフェースです。
type ReportUsecase interface {
	EnqueueReport(ctx context.Context, userID uint) error
}

// TaskHandler はタスクCRUDとレポート投入のHTTPリクエストを処理します。
type TaskHandler struct {
	tasks   TaskUsecase
	reports ReportUsecase
}

// NewTaskHandler は新しい TaskHandler を作成します。
func NewTaskHandler(tasks TaskUsecase, reports ReportUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks, reports: reports}
}

// Add はタスク作成APIです。
//
// POST /tasks
func (h *TaskHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AddTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id, err := h.tasks.AddTask(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyTaskName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// List はタスク一覧APIです。
//
// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.TaskItem, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.TaskItem{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	c.JSON(http.StatusOK, out)
}

// Delete はタスク削除APIです。
//
// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), userID, uint(taskID)); err != nil {
		if errors.Is(err, usecase.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Report はレポートメールのジョブ投入APIです。送信自体はワーカーが行います。
//
// POST /tasks/report
func (h *TaskHandler) Report(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.reports.EnqueueReport(c.Request.Context(), userID); err != nil {
		slog.Error("failed to enqueue report", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue report"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

// currentUserID はJWTミドルウェアが設定したユーザーIDを取り出します。
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(jwtmw.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return id, true
}
