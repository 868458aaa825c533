package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tasksadapters "fonds_backend/internal/feature/tasks/adapters"
	tasksusecase "fonds_backend/internal/feature/tasks/usecase"
	"fonds_backend/internal/platform/db"
	"fonds_backend/internal/platform/jobs"
	platformredis "fonds_backend/internal/platform/redis"
	"fonds_backend/internal/platform/smtp"
)

// レポートメール送信ジョブを処理する常駐ワーカーです。
// キューをブロッキングポーリングし、SIGINT/SIGTERMで停止します。
func main() {
	gdb := db.OpenDB()

	rdb, err := platformredis.NewRedisClient()
	if err != nil {
		log.Fatal("worker requires Redis:", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}()

	taskRepo := tasksadapters.NewTaskRepository(gdb)
	recipients := tasksadapters.NewRecipientDirectory(gdb)
	mailer := smtp.NewMailer(smtp.LoadConfig())
	queue := jobs.NewQueue(rdb, jobs.DefaultQueueKey)
	reports := tasksusecase.NewReportUsecase(taskRepo, recipients, mailer, queue)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("worker started", "queue", jobs.DefaultQueueKey)
	for {
		job, err := queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			slog.Error("dequeue failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			// タイムアウト。シャットダウン確認のためループに戻る
			if ctx.Err() != nil {
				break
			}
			continue
		}

		switch job.Type {
		case jobs.TypeTaskReport:
			if err := reports.SendReport(ctx, job.UserID); err != nil {
				slog.Error("report job failed", "user_id", job.UserID, "error", err)
				continue
			}
			slog.Info("report sent", "user_id", job.UserID)
		default:
			slog.Warn("unknown job type", "type", job.Type)
		}
	}
	slog.Info("worker stopped")
}
