package usecase

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"fonds_backend/internal/feature/tasks/domain/entity"
	"fonds_backend/internal/platform/jobs"
)

// Recipient はレポートメールの宛先ユーザーです。
type Recipient struct {
	Email    string
	Username string
}

// RecipientDirectory resolves a user ID to a mail recipient.
type RecipientDirectory interface {
	FindRecipient(ctx context.Context, userID uint) (*Recipient, error)
}

// Mailer sends one HTML message.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// JobQueue enqueues background jobs for the worker.
type JobQueue interface {
	Enqueue(ctx context.Context, job jobs.Job) error
}

// ReportUsecase はタスクレポートメールの生成と送信を実装します。
// HTTPリクエストはキューに積むだけで返り、実際の送信はワーカーが行います。
type ReportUsecase struct {
	tasks  TaskRepository
	users  RecipientDirectory
	mailer Mailer
	queue  JobQueue
}

// NewReportUsecase はReportUsecaseの新しいインスタンスを生成します。
func NewReportUsecase(tasks TaskRepository, users RecipientDirectory, mailer Mailer, queue JobQueue) *ReportUsecase {
	return &ReportUsecase{tasks: tasks, users: users, mailer: mailer, queue: queue}
}

// EnqueueReport はユーザーのレポートジョブをキューに積みます。
func (ru *ReportUsecase) EnqueueReport(ctx context.Context, userID uint) error {
	return ru.queue.Enqueue(ctx, jobs.Job{Type: jobs.TypeTaskReport, UserID: userID})
}

// SendReport はユーザーのタスク一覧をHTMLメールにして送信します。
// ワーカーから呼ばれます。
func (ru *ReportUsecase) SendReport(ctx context.Context, userID uint) error {
	recipient, err := ru.users.FindRecipient(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve recipient for user %d: %w", userID, err)
	}

	tasks, err := ru.tasks.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load tasks for user %d: %w", userID, err)
	}

	subject := fmt.Sprintf("Task report: %d open tasks", len(tasks))
	body := RenderReport(recipient.Username, tasks)
	if err := ru.mailer.Send(recipient.Email, subject, body); err != nil {
		return fmt.Errorf("send report to %s: %w", recipient.Email, err)
	}

	slog.Info("task report sent", "user_id", userID, "tasks", len(tasks))
	return nil
}

// RenderReport はレポートメールのHTML本文を組み立てます。
func RenderReport(username string, tasks []entity.Task) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(fmt.Sprintf("<h1>Hello, %s</h1>", html.EscapeString(username)))

	if len(tasks) == 0 {
		sb.WriteString("<p>You have no tasks.</p>")
	} else {
		sb.WriteString("<ul>")
		for _, t := range tasks {
			sb.WriteString("<li>")
			sb.WriteString(html.EscapeString(t.Name))
			if t.Description != nil && *t.Description != "" {
				sb.WriteString(" &mdash; ")
				sb.WriteString(html.EscapeString(*t.Description))
			}
			sb.WriteString("</li>")
		}
		sb.WriteString("</ul>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}
