package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vifapro/vifa-history/internal/application"
	apphistory "github.com/vifapro/vifa-history/internal/application/history"
	"github.com/vifapro/vifa-history/internal/config"
	domain "github.com/vifapro/vifa-history/internal/domain/history"
	"github.com/vifapro/vifa-history/internal/infra/artifacts"
	mysqldb "github.com/vifapro/vifa-history/internal/infra/db/mysql"
	postgresdb "github.com/vifapro/vifa-history/internal/infra/db/postgres"
	sqlitedb "github.com/vifapro/vifa-history/internal/infra/db/sqlite"
	"github.com/vifapro/vifa-history/internal/infra/export"
	"github.com/vifapro/vifa-history/internal/infra/httpserver"
	"github.com/vifapro/vifa-history/internal/infra/jsonstore"
	"github.com/vifapro/vifa-history/internal/infra/report"
	minioStore "github.com/vifapro/vifa-history/internal/infra/storage"
	"github.com/vifapro/vifa-history/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// primary JSON store
	repo, err := jsonstore.New(cfg.History.File)
	if err != nil {
		log.Fatalf("history store init error: %v", err)
	}

	// artifact store
	artifactStore, err := artifacts.New(cfg.History.ArtifactsDir)
	if err != nil {
		log.Fatalf("artifact store init error: %v", err)
	}

	// advisory settings index: kegagalan koneksi tidak fatal, service jalan
	// terus tanpa index (JSON store tetap source of truth)
	settings, settingsDB := openSettingsIndex(ctx, cfg)
	if settingsDB != nil {
		defer settingsDB.Close()
	}

	renderer := report.HTMLRenderer{}

	// init service
	svc := &apphistory.Service{
		Repo:      repo,
		Artifacts: artifactStore,
		Settings:  settings,
		Renderer:  renderer,
		Packager:  export.ZipPackager{Renderer: renderer},
		Clock:     application.SystemClock{},
	}

	// optional minio untuk push bundle ekspor
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Uploader = store
	}

	checkers := map[string]middleware.HealthChecker{
		"storage": &middleware.StorageHealthChecker{
			HistoryFile:  cfg.History.File,
			ArtifactRoot: cfg.History.ArtifactsDir,
		},
	}
	if settingsDB != nil {
		checkers["settings_index"] = &middleware.DatabaseHealthChecker{DB: settingsDB}
	}

	// init router + middleware chain
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	mux := chi.NewRouter()
	mux.Use(middleware.Logging)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(limiter.RateLimit)
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	mux.Mount("/", httpserver.NewRouter(svc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openSettingsIndex buka backend advisory index sesuai config. Index ini
// non-otoritatif: error apa pun cuma di-log, return nil supaya service tetap
// jalan.
func openSettingsIndex(ctx context.Context, cfg *config.Config) (domain.SettingsIndex, *sql.DB) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Settings.Driver {
	case "sqlite":
		db, err = sqlitedb.Connect(ctx, cfg.Settings.SQLitePath)
		if err == nil {
			repo := sqlitedb.NewSettingsRepository(db)
			if err = repo.Init(ctx); err == nil {
				return repo, db
			}
		}
	case "mysql":
		db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err == nil {
			repo := mysqldb.NewSettingsRepository(db)
			if err = repo.Init(ctx); err == nil {
				return repo, db
			}
		}
	case "postgres":
		db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err == nil {
			repo := postgresdb.NewSettingsRepository(db)
			if err = repo.Init(ctx); err == nil {
				return repo, db
			}
		}
	default:
		log.Printf("unknown settings driver %q, advisory index disabled", cfg.Settings.Driver)
		return nil, nil
	}
	log.Printf("settings index unavailable (advisory, continuing without): %v", err)
	if db != nil {
		db.Close()
	}
	return nil, nil
}
