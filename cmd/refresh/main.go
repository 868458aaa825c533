package main

import (
	"context"
	"log"
	"time"

	"fonds_backend/internal/app/di"
	fondsadapters "fonds_backend/internal/feature/fonds/adapters"
	fondsusecase "fonds_backend/internal/feature/fonds/usecase"
	"fonds_backend/internal/platform/db"
	"fonds_backend/internal/platform/jobs"
	platformredis "fonds_backend/internal/platform/redis"
)

// 銘柄カタログを全件入れ替えるバッチです。cronなどから定期実行されます。
func main() {
	gdb := db.OpenDB()
	shareRepo := fondsadapters.NewShareRepository(gdb)
	provider := di.NewMarketDataProvider()
	uc := fondsusecase.NewRefreshUsecase(provider, shareRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// 同一ジョブの多重起動をRedisロックで防ぐ。Redisがなければそのまま実行する。
	if rdb, err := platformredis.NewRedisClient(); err == nil {
		lock := jobs.NewLock(rdb, "joblock")
		ok, err := lock.Acquire(ctx, "refresh", 10*time.Minute)
		if err != nil {
			log.Fatal("failed to acquire refresh lock:", err)
		}
		if !ok {
			log.Println("refresh already running, skipping")
			return
		}
		defer func() {
			if err := lock.Release(context.Background(), "refresh"); err != nil {
				log.Println("[WARN] failed to release refresh lock:", err)
			}
		}()
	} else {
		log.Println("[WARN] Redis unavailable. Running without job lock.")
	}

	if err := uc.Refresh(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("refresh ok")
}
