package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"devicehub/config"
	"devicehub/internal/auth"
	"devicehub/internal/db"
	"devicehub/internal/dispatch"
	"devicehub/internal/health"
	"devicehub/internal/httpapi"
	"devicehub/internal/logs"
	"devicehub/internal/middleware"
	"devicehub/internal/models"
	"devicehub/internal/repo"
	"devicehub/internal/seed"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB + миграции пяти коллекций */
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d

	if err := a.db.AutoMigrate(
		&models.Device{},
		&models.DeviceSetting{},
		&models.WifiNetwork{},
		&models.User{},
		&models.UserActivity{},
	); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if a.cfg.Seed.Enabled {
		if err := seed.Seed(context.Background(), a.db); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		logs.Logger.Info("synthetic data seeded")
	}

	ds := repo.NewDeviceStore(a.db)
	us := repo.NewUserStore(a.db)
	dsp := dispatch.New(ds, us)

	// Валидатор токенов — только если настроен JWKS
	var validator *auth.Validator
	if a.cfg.Auth.JWKSURL != "" {
		validator = auth.NewValidator(a.cfg.Auth.JWKSURL, a.cfg.Auth.ClientID)
	} else {
		logs.Logger.Warn("auth.jwks_url is empty, /api/v1 is unauthenticated")
	}

	/* 3) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 4) Health */
	health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz

	/* 5) Инструментальный API */
	httpapi.RegisterRoutes(a.Router, dsp, validator)

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
