package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"account_backend/internal/app/di"
	"account_backend/internal/app/router"
	authadapters "account_backend/internal/feature/auth/adapters"
	authhandler "account_backend/internal/feature/auth/transport/handler"
	authusecase "account_backend/internal/feature/auth/usecase"
	"account_backend/internal/platform/config"
	platformdb "account_backend/internal/platform/db"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/logger"
	"account_backend/internal/platform/password"
	infraredis "account_backend/internal/platform/redis"
	"account_backend/internal/shared/ratelimiter"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.OpenDB(cfg.DB, authadapters.Models()...)
	if err != nil {
		return err
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	issuer, err := jwtmw.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTExpiresIn)
	if err != nil {
		return err
	}

	// Repository（Redisがあればキャッシュでラップ）
	userRepo := di.NewUserRepository(db, rdb, cfg.CacheTTL)

	// Usecase
	accountUC := authusecase.NewAccountUsecase(userRepo, password.NewBcryptHasher(cfg.BcryptCost), issuer)

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Auth:          authhandler.NewAuthHandler(accountUC),
		Users:         authhandler.NewUserHandler(accountUC),
		Verifier:      issuer,
		SigninLimiter: ratelimiter.NewRateLimiter(cfg.SigninRateLimit, cfg.SigninRateWindow),
		Pinger:        platformdb.NewPinger(db),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
