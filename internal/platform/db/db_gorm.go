package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	sessionadapters "fonds_backend/internal/feature/auth/adapters"
	authentity "fonds_backend/internal/feature/auth/domain/entity"
	fondsadapters "fonds_backend/internal/feature/fonds/adapters"
	tasksadapters "fonds_backend/internal/feature/tasks/adapters"
)

// Config はPostgreSQL接続に必要な設定を保持します。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

// BuildDSN は設定からPostgreSQLのDSN文字列を組み立てます。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// ConnectWithRetry は指定されたタイムアウトまで3秒間隔で接続を試行します。
// 起動直後にDBコンテナが未準備の場合があるため、即座に失敗させません。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(dsn string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB は環境変数の設定でPostgreSQLに接続し、必要に応じてマイグレーションを実行します。
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()
	dsn := BuildDSN(cfg)

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Session, Share, Fundamentals, Task）
		if err := db.AutoMigrate(
			&authentity.User{},
			&sessionadapters.SessionModel{},
			&fondsadapters.ShareModel{},
			&fondsadapters.FundamentalsModel{},
			&tasksadapters.TaskModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
