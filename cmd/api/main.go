package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/auth"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/blob"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/atendimento-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/atendimento-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/lock"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/routes"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

func main() {

	cfg := config.Load()
	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// STORE
	// ======================================================
	var gw *store.Gateway
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		gw = store.NewMemoryGateway()
	default:
		db, err := dbpkg.NewDB(cfg, log)
		if err != nil {
			log.Fatal("failed to connect database", zap.Error(err))
		}
		if err := dbpkg.Migrate(db, log); err != nil {
			log.Fatal("failed to migrate", zap.Error(err))
		}
		gw = infraRepo.NewGormGateway(db)
	}

	// ======================================================
	// LOCK DE HORÁRIO
	// ======================================================
	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisEnabled() {
		client, err := lock.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn("redis unavailable, falling back to local slot lock", zap.Error(err))
		} else {
			defer client.Close()
			locker = lock.NewRedisLocker(client, cfg.LockTTL)
		}
	}

	// ======================================================
	// UPLOADS
	// ======================================================
	storage, err := blob.New(cfg)
	if err != nil {
		log.Warn("blob storage disabled", zap.Error(err))
		storage = blob.Disabled{}
	}

	auditDispatcher := audit.NewDispatcher(audit.New(gw.AuditLogs), log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Gateway:  gw,
		Locker:   locker,
		Storage:  storage,
		Audit:    auditDispatcher,
		Tokens:   auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Resolver: net.DefaultResolver,
		Log:      log,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if err := auditDispatcher.Close(shutdownCtx); err != nil {
		log.Warn("audit queue not drained", zap.Error(err))
	}
}
