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

	"github.com/wearcheck/compliance-api/internal/application"
	appcompliance "github.com/wearcheck/compliance-api/internal/application/compliance"
	appsettings "github.com/wearcheck/compliance-api/internal/application/settings"
	"github.com/wearcheck/compliance-api/internal/config"
	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
	domain "github.com/wearcheck/compliance-api/internal/domain/compliance"
	"github.com/wearcheck/compliance-api/internal/infra/ai/fallback"
	aiopenai "github.com/wearcheck/compliance-api/internal/infra/ai/openai"
	memoryp "github.com/wearcheck/compliance-api/internal/infra/db/memory"
	mysqlp "github.com/wearcheck/compliance-api/internal/infra/db/mysql"
	postgresp "github.com/wearcheck/compliance-api/internal/infra/db/postgres"
	"github.com/wearcheck/compliance-api/internal/infra/httpserver"
	minioStore "github.com/wearcheck/compliance-api/internal/infra/storage"
	"github.com/wearcheck/compliance-api/internal/middleware"
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

	// init record store
	var db *sql.DB
	svc := &appcompliance.Service{
		Fallback:      fallback.New(),
		Clock:         application.SystemClock{},
		MaxImageBytes: int64(cfg.Limits.MaxImageMB) << 20,
	}

	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		svc.Repo = postgresp.NewRecordRepository(db)
	case "memory", "":
		log.Println("no database configured, records are kept in memory")
		svc.Repo = memoryp.NewRecordRepository()
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		svc.Repo = mysqlp.NewRecordRepository(db)
		svc.ErrorLog = mysqlp.NewCheckErrorRepository(db)
	}
	if db != nil {
		defer db.Close()
	}

	// init image archive (optional)
	if cfg.Minio.Endpoint != "" {
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
		svc.Archive = store
	}

	// operator settings; reread on every check so toggling takes effect
	// without a restart
	settingsSvc := appsettings.NewService(appsettings.Settings{
		APIKey:      cfg.OpenAI.APIKey,
		UseFallback: cfg.OpenAI.UseFallback,
	})
	svc.Settings = settingsSvc

	poll := aiopenai.DefaultPollPolicy()
	if cfg.OpenAI.MaxRetries > 0 {
		poll.MaxAttempts = cfg.OpenAI.MaxRetries
	}
	if cfg.OpenAI.PollInitialMS > 0 {
		poll.InitialDelay = time.Duration(cfg.OpenAI.PollInitialMS) * time.Millisecond
	}
	if cfg.OpenAI.PollMultiplier > 1 {
		poll.Multiplier = cfg.OpenAI.PollMultiplier
	}

	model := cfg.OpenAI.Model
	if cfg.OpenAI.Mode == "assistant" {
		svc.NewReasoner = func(apiKey string) domai.Reasoner {
			return aiopenai.NewAssistantClient(apiKey, model, poll)
		}
	} else {
		svc.NewReasoner = func(apiKey string) domai.Reasoner {
			return aiopenai.NewClient(apiKey, model)
		}
	}

	// init router
	checkers := map[string]middleware.HealthChecker{}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}
	handler := httpserver.NewRouter(svc, settingsSvc, httpserver.Options{
		AdminKeys:        cfg.Auth.AdminKeys,
		Checkers:         checkers,
		RateCapacity:     cfg.Limits.RateCapacity,
		RateRefillPerSec: cfg.Limits.RateRefillPerSec,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // reasoning backend polling can be slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s (industries: %v)", addr, domain.Industries())
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
