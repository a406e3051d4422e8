package main

import (
	"log"

	"anoa.com/socialgram/internal/config"
	"anoa.com/socialgram/internal/entity"
	"anoa.com/socialgram/internal/server"
	"anoa.com/socialgram/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	srv := server.NewServer(db, redisClient, cfg)

	// log.Fatalf skips defers, so tear down explicitly before exiting.
	runErr := srv.Run(":" + cfg.Port)
	if err := srv.Close(); err != nil {
		log.Printf("server close failed: %v", err)
	}
	if runErr != nil {
		log.Fatalf("server exited with error: %v", runErr)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Post{},
		&entity.Comment{},
		&entity.Notification{},
	)
}
