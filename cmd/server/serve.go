package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/vedran77/vidtube/internal/auth"
	"github.com/vedran77/vidtube/internal/config"
	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/internal/media"
	"github.com/vedran77/vidtube/internal/repository/mongodb"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/handlers"
	"github.com/vedran77/vidtube/internal/transport/ws"
)

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer disconnect(client)
	logging.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	// Repositories
	userRepo := mongodb.NewUserRepo(db)
	videoRepo := mongodb.NewVideoRepo(db)
	commentRepo := mongodb.NewCommentRepo(db)
	likeRepo := mongodb.NewLikeRepo(db)
	subRepo := mongodb.NewSubscriptionRepo(db)
	playlistRepo := mongodb.NewPlaylistRepo(db)
	tweetRepo := mongodb.NewTweetRepo(db)
	dashboardRepo := mongodb.NewDashboardRepo(db)

	// Media
	store, err := newMediaStore(ctx, cfg.Media)
	if err != nil {
		return err
	}
	mediaDelegate := media.NewDelegate(store, media.BreakerConfig{})

	// WebSocket hub
	hub := ws.NewHub()
	notifier := ws.NewHubNotifier(hub)

	// Services
	tokens := auth.NewIssuer(cfg.Auth)
	userService := service.NewUserService(userRepo, mediaDelegate, tokens)
	videoService := service.NewVideoService(videoRepo, userRepo, mediaDelegate)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	commentService.SetNotifier(notifier)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	likeService.SetNotifier(notifier)
	subscriptionService := service.NewSubscriptionService(subRepo, userRepo)
	subscriptionService.SetNotifier(notifier)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	tweetService := service.NewTweetService(tweetRepo, userRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// Handlers
	uploads, err := handlers.NewUploader(cfg.Server.UploadDir, cfg.Server.MaxUploadSize)
	if err != nil {
		return err
	}
	pager := handlers.NewPager(cfg.API)

	router := newRouter(routerDeps{
		cfg:           cfg,
		tokens:        tokens,
		wsHandler:     ws.ServeWS(ctx, hub, tokens, cfg.Server.CORSOrigins),
		health:        handlers.NewHealthHandler(handlers.PingerFunc(func(ctx context.Context) error { return database.Ping(ctx, client) })),
		users:         handlers.NewUserHandler(userService, uploads, cfg.Auth),
		videos:        handlers.NewVideoHandler(videoService, uploads, pager),
		comments:      handlers.NewCommentHandler(commentService, pager),
		likes:         handlers.NewLikeHandler(likeService, pager),
		subscriptions: handlers.NewSubscriptionHandler(subscriptionService),
		playlists:     handlers.NewPlaylistHandler(playlistService),
		tweets:        handlers.NewTweetHandler(tweetService),
		dashboard:     handlers.NewDashboardHandler(dashboardService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func ensureIndexes(ctx context.Context, _ *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer disconnect(client)

	if err := database.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database)); err != nil {
		return err
	}
	logging.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
	return nil
}

func newMediaStore(ctx context.Context, cfg config.MediaConfig) (media.Store, error) {
	if cfg.Driver == "s3" {
		store, err := media.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := media.NewDiskStore(cfg.DiskDir, cfg.PublicURL)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logging.Warn().Err(err).Msg("mongodb disconnect")
	}
}
