package app

import (
	"context"
	"log/slog"
	"time"

	httpapp "event_gallery/internal/app/http"
	"event_gallery/internal/config"
	"event_gallery/internal/lib/imaging"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/repository"
	"event_gallery/internal/services/auth"
	gallery "event_gallery/internal/services/gallery_service"
	media "event_gallery/internal/services/media_service"
	statssvc "event_gallery/internal/services/stats_service"
	token "event_gallery/internal/services/token_service"
	storage "event_gallery/internal/storage/filestorage"
	"event_gallery/internal/storage/jsonstore"
	"event_gallery/internal/storage/postgresql"
	redisapp "event_gallery/internal/storage/redis"
	httprouters "event_gallery/internal/transport/http"
)

const ledgerCleanupInterval = 10 * time.Minute

type App struct {
	HTTPServer *httpapp.Server
	repo       *repository.Repository
}

// New wires the application from cfg and panics when a required backend
// cannot be reached.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	repo := repository.NewRepository(nil, nil)
	repo.Events = mustEventStore(ctx, log, cfg, repo)
	repo.Visits = visitLedger(ctx, log, cfg, repo)

	fileStorage, err := storage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		panic(err)
	}

	authService := auth.New(log, auth.Credentials{
		Email:        cfg.Admin.Email,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	})
	tokenService := token.NewTokenService(cfg.Session.Secret, cfg.TokenTTL)
	galleryService := gallery.NewGalleryService(log, repo.Events, fileStorage)
	mediaService := media.NewMediaService(log, repo.Events, fileStorage,
		imaging.NewProcessor(imaging.Config{Quality: cfg.Image.Quality}),
		media.Config{
			FullWidth:       cfg.Image.FullWidth,
			ThumbWidth:      cfg.Image.ThumbWidth,
			MaxSize:         cfg.FileStorage.MaxSize,
			DefaultLocation: cfg.Gallery.DefaultLocation,
		})
	statsService := statssvc.NewStatsService(log, repo.Events, repo.Visits, cfg.Stats.DedupCookieTTL)

	routers := httprouters.NewRouter(log, authService, tokenService, galleryService, mediaService, statsService,
		httprouters.SessionOptions{
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
		})

	server := httpapp.New(log, httpapp.Options{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		DevOrigin:     cfg.HTTP.DevOrigin,
		BodyLimit:     cfg.HTTP.BodyLimit,
		SessionSecret: cfg.Session.Secret,
		ReadTimeout:   cfg.HTTP.ReadTimeout,
		WriteTimeout:  cfg.HTTP.WriteTimeout,
		IdleTimeout:   cfg.HTTP.IdleTimeout,
		ImagesDir:     fileStorage.GetBaseDir(),
		ImagesURL:     fileStorage.BaseURL(),
	}, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		repo:       repo,
	}
}

// Close releases storage connections.
func (a *App) Close() {
	a.repo.Close()
}

func mustEventStore(ctx context.Context, log *slog.Logger, cfg *config.Config, repo *repository.Repository) repository.EventStore {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := postgresql.New(ctx, log, cfg.Storage.DSN)
		if err != nil {
			panic(err)
		}
		repo.OnClose(pg.Stop)
		log.Info("events stored in postgres")
		return pg
	default:
		store, err := jsonstore.New(log, cfg.Storage.EventsFile)
		if err != nil {
			panic(err)
		}
		log.Info("events stored in file", slog.String("path", store.Path()))
		return store
	}
}

// visitLedger picks the server-side dedup backend. An unreachable redis
// degrades to cookie-only dedup.
func visitLedger(ctx context.Context, log *slog.Logger, cfg *config.Config, repo *repository.Repository) repository.VisitLedger {
	switch cfg.Stats.DedupBackend {
	case config.DedupMemory:
		return repository.NewMemoryVisitRepo(ledgerCleanupInterval)
	case config.DedupRedis:
		client, err := redisapp.Connect(ctx, cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err != nil {
			log.Warn("redis unavailable, visitor dedup falls back to cookies", sl.Err(err))
			return nil
		}
		repo.OnClose(func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close redis", sl.Err(err))
			}
		})
		return repository.NewRedisVisitRepo(client)
	default:
		return nil
	}
}
