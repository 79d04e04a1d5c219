package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/buildinfo"
	"github.com/xelth-com/drawerscan/internal/catalog"
	"github.com/xelth-com/drawerscan/internal/config"
	"github.com/xelth-com/drawerscan/internal/database"
	"github.com/xelth-com/drawerscan/internal/events"
	"github.com/xelth-com/drawerscan/internal/handlers"
	"github.com/xelth-com/drawerscan/internal/logger"
	"github.com/xelth-com/drawerscan/internal/middleware"
	"github.com/xelth-com/drawerscan/internal/scanner"
	"github.com/xelth-com/drawerscan/internal/source"
	"github.com/xelth-com/drawerscan/internal/utils"
	"github.com/xelth-com/drawerscan/internal/websocket"
	"github.com/xelth-com/drawerscan/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "drawerscan: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(cfg.NodeEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("starting drawerscan", zap.String("version", buildinfo.Version), zap.String("env", cfg.NodeEnv))

	// 2. Drawer registry and flight catalog (database when enabled)
	cat := catalog.FromConfig(cfg)
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Connect(cfg.Database, log.Named("database"))
		if err != nil {
			return fmt.Errorf("connect to catalog database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn("database close error", zap.Error(err))
			}
		}()
		loaded, err := catalog.Load(db.DB, cat, log.Named("catalog"))
		if err != nil {
			return err
		}
		cat = loaded
	}

	// 3. Scanning core
	svc, err := scanner.NewService(scanner.Options{
		Drawers:     cat.Drawers,
		DedupWindow: cfg.DedupWindow,
		Logger:      log.Named("scanner"),
	})
	if err != nil {
		return fmt.Errorf("build drawer registry: %w", err)
	}
	log.Info("drawer registry ready", zap.Int("drawers", len(cat.Drawers)), zap.Int("flights", len(cat.Flights)), zap.String("source", cat.Source))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	goRun := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	worker := scanner.NewWorker(svc, 64, log.Named("worker"))
	goRun(func() { worker.Run(ctx) })

	// 4. Outcome fan-out
	hub := websocket.NewHub(worker.Submit, log)
	svc.Subscribe(hub)
	goRun(func() { hub.Run(ctx) })

	pub, err := events.NewPublisher(cfg.Messaging, log.Named("events"))
	if err != nil {
		return fmt.Errorf("connect messaging: %w", err)
	}
	if pub != nil {
		fwd := events.NewForwarder(pub, 256, log)
		svc.Subscribe(fwd)
		goRun(func() { fwd.Run(ctx) })
	}

	// 5. Handheld reader
	if cfg.Serial.Device != "" {
		worker.Attach(ctx, source.NewSerial(cfg.Serial.Device, cfg.Serial.Baud, log))
	}

	// 6. HTTP server
	static, staticErr := web.GetFileSystem()
	if staticErr != nil {
		log.Warn("scanner page unavailable", zap.Error(staticErr))
		static = nil
	}
	router := handlers.NewRouter(handlers.Options{
		Service:            svc,
		Catalog:            cat,
		Hub:                hub,
		Static:             static,
		RequireKnownFlight: cfg.RequireKnownFlight,
		Logger:             log.Named("http"),
	})

	var handler http.Handler = router
	handler = middleware.RequestLogger(log.Named("http"), "/ultimo_qr", "/health")(handler)
	handler = middleware.CORS(handler)
	handler = middleware.CaseInsensitiveMiddleware(handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr), zap.Strings("scanner_urls", utils.StationURLs(cfg.Port)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-serverErr:
		log.Error("http server failed", zap.Error(runErr))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown error", zap.Error(err))
	}

	wg.Wait()
	log.Info("shutdown complete")
	return runErr
}
