package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/meetsched/meeting-scheduler/internal/config"
	dbpkg "github.com/meetsched/meeting-scheduler/internal/db"
	"github.com/meetsched/meeting-scheduler/internal/logging"
	"github.com/meetsched/meeting-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()

	log, err := logging.New(cfg.LogDir, cfg.LogDebug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := dbpkg.NewDB(cfg, log)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis unreachable, reminders and oauth state will fail", zap.Error(err))
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	background := routes.RegisterRoutes(r, db, rdb, cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go background.Reminders.Run(ctx, 30*time.Second)
	go background.Sweeper.Run(ctx, time.Minute)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
