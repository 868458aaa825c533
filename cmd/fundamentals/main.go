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

// 全銘柄の財務指標を取得して保存するバッチです。
// プロバイダーのレート制限待ちを含むため、タイムアウトは長めに取ります。
func main() {
	gdb := db.OpenDB()
	shareRepo := fondsadapters.NewShareRepository(gdb)
	fundamentalsRepo := fondsadapters.NewFundamentalsRepository(gdb)
	provider := di.NewMarketDataProvider()
	uc := fondsusecase.NewFundamentalsUsecase(provider, shareRepo, fundamentalsRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	// 同一ジョブの多重起動をRedisロックで防ぐ。Redisがなければそのまま実行する。
	if rdb, err := platformredis.NewRedisClient(); err == nil {
		lock := jobs.NewLock(rdb, "joblock")
		ok, err := lock.Acquire(ctx, "fundamentals", 2*time.Hour)
		if err != nil {
			log.Fatal("failed to acquire fundamentals lock:", err)
		}
		if !ok {
			log.Println("fundamentals upsert already running, skipping")
			return
		}
		defer func() {
			if err := lock.Release(context.Background(), "fundamentals"); err != nil {
				log.Println("[WARN] failed to release fundamentals lock:", err)
			}
		}()
	} else {
		log.Println("[WARN] Redis unavailable. Running without job lock.")
	}

	if err := uc.UpsertAll(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("fundamentals upsert ok")
}
