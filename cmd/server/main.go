package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kay-social/internal/auth"
	"kay-social/internal/config"
	apphttp "kay-social/internal/http"
	"kay-social/internal/repository"
	"kay-social/internal/repository/postgres"
	"kay-social/internal/repository/sqlite"
	"kay-social/internal/service"
	"kay-social/internal/storage"
)

type stores struct {
	db           *sql.DB
	users        repository.UserRepository
	posts        repository.PostRepository
	interactions repository.InteractionRepository
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer st.db.Close()

	images, err := buildImageStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}

	authService, err := service.NewAuthService(service.AuthConfig{
		Users:  st.users,
		Hasher: auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens: tokens,
		Images: images,
		Logger: logger,
	})
	if err != nil {
		logger.Fatalf("setup auth: %v", err)
	}
	postService := service.NewPostService(st.posts)
	interactionService := service.NewInteractionService(st.interactions, st.posts, st.users, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(authService, postService, interactionService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			db:           db,
			users:        postgres.NewUserRepository(db),
			posts:        postgres.NewPostRepository(db),
			interactions: postgres.NewInteractionRepository(db),
		}, nil
	default:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		users := sqlite.NewUserRepository(db)
		posts := sqlite.NewPostRepository(db)
		interactions := sqlite.NewInteractionRepository(db)
		if err := sqlite.Init(ctx, users, posts, interactions); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
		return &stores{db: db, users: users, posts: posts, interactions: interactions}, nil
	}
}

// buildImageStore returns nil when no bucket is configured; profile images
// then live in the users table.
func buildImageStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.ImageStore, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("no storage bucket configured, profile images kept in the database")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s) for profile images", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3ImageStore(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
}
