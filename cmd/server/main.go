package main

import (
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"fonds_backend/internal/app/di"
	"fonds_backend/internal/app/router"
	authadapters "fonds_backend/internal/feature/auth/adapters"
	authhandler "fonds_backend/internal/feature/auth/transport/handler"
	authusecase "fonds_backend/internal/feature/auth/usecase"
	fondsadapters "fonds_backend/internal/feature/fonds/adapters"
	fondshandler "fonds_backend/internal/feature/fonds/transport/handler"
	fondsusecase "fonds_backend/internal/feature/fonds/usecase"
	tasksadapters "fonds_backend/internal/feature/tasks/adapters"
	taskshandler "fonds_backend/internal/feature/tasks/transport/handler"
	tasksusecase "fonds_backend/internal/feature/tasks/usecase"
	"fonds_backend/internal/platform/cache"
	"fonds_backend/internal/platform/db"
	"fonds_backend/internal/platform/jobs"
	jwtmw "fonds_backend/internal/platform/jwt"
	platformredis "fonds_backend/internal/platform/redis"
	"fonds_backend/internal/platform/smtp"
)

func main() {
	// db
	gdb := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserRepository(gdb)
	sessionRepo := di.NewSessionRepository(rdb, gdb)
	shareRepo := fondsadapters.NewShareRepository(gdb)
	fundamentalsRepo := fondsadapters.NewFundamentalsRepository(gdb)
	taskRepo := tasksadapters.NewTaskRepository(gdb)
	recipients := tasksadapters.NewRecipientDirectory(gdb)

	// Redisキャッシュでラップ
	cachedShareRepo := cache.NewCachingShareRepository(rdb, cache.DefaultTTL, shareRepo, "shares")
	cachedFundamentalsRepo := cache.NewCachingFundamentalsRepository(rdb, cache.DefaultTTL, fundamentalsRepo, "fundamentals")

	// 外部API
	provider := di.NewMarketDataProvider()

	// Usecase
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 15*time.Minute)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtGen, 15*time.Minute)
	fondsUC := fondsusecase.NewFondsUsecase(cachedShareRepo, cachedFundamentalsRepo, provider)
	taskUC := tasksusecase.NewTaskUsecase(taskRepo)
	queue := jobs.NewQueue(rdb, jobs.DefaultQueueKey)
	mailer := smtp.NewMailer(smtp.LoadConfig())
	reportUC := tasksusecase.NewReportUsecase(taskRepo, recipients, mailer, queue)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	fondsH := fondshandler.NewFondsHandler(fondsUC)
	tasksH := taskshandler.NewTaskHandler(taskUC, reportUC)

	// ルータ生成
	r := router.NewRouter(authH, fondsH, tasksH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
