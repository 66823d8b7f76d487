package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"penhub/internal/cache"
	"penhub/internal/config"
	"penhub/internal/db"
	"penhub/internal/handlers"
	applog "penhub/internal/logger"
	"penhub/internal/repository"
	"penhub/internal/router"
	"penhub/internal/services"
	"penhub/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	clearCache := flag.Bool("clear-cache", false, "clear the page cache and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := applog.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pageCache, err := newPageCache(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create page cache", zap.Error(err))
	}
	defer pageCache.Close()

	if *clearCache {
		if err := pageCache.Clear(context.Background()); err != nil {
			logger.Fatal("Failed to clear page cache", zap.Error(err))
		}
		logger.Info("Page cache cleared")
		return
	}

	// Initialize Database
	conn, err := db.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}

	renderer, err := views.New(cfg.SiteName)
	if err != nil {
		logger.Fatal("Failed to load templates", zap.Error(err))
	}

	posts := repository.NewPostRepository(conn)
	groups := repository.NewGroupRepository(conn)
	users := repository.NewUserRepository(conn)
	comments := repository.NewCommentRepository(conn)
	follows := services.NewFollowGraph(repository.NewFollowRepository(conn), users)

	deps := handlers.Deps{
		Feed:      services.NewFeedComposer(posts, groups, users, comments, follows, cfg.PageSize),
		Follows:   follows,
		Posts:     services.NewPostService(posts, groups, users),
		Comments:  services.NewCommentService(comments, posts),
		Auth:      services.NewAuthService(users),
		Media:     services.NewLocalMediaStore(cfg.MediaRoot, cfg.MediaURL),
		PageCache: pageCache,
		CacheTTL:  cfg.CacheTTL,
		SiteName:  cfg.SiteName,
		SiteURL:   cfg.SiteURL,
		Views:     renderer,
		Log:       logger,
	}

	engine := router.New(deps, router.Options{
		SiteName:      cfg.SiteName,
		SessionSecret: cfg.SessionSecret,
		MediaRoot:     cfg.MediaRoot,
		MediaURL:      cfg.MediaURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("PenHub server starting", zap.String("addr", srv.Addr), zap.String("cache", cfg.CacheBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newPageCache(cfg *config.Config, logger *zap.Logger) (cache.PageCache, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisCache(client, cache.DefaultRedisPrefix, logger), nil
	default:
		mem, err := cache.NewMemoryCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return mem, nil
	}
}
