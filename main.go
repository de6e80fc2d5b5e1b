package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/raaghavgupta2020/budget-app/internal/config"
	"github.com/raaghavgupta2020/budget-app/internal/database"
	"github.com/raaghavgupta2020/budget-app/internal/logger"
	"github.com/raaghavgupta2020/budget-app/internal/router"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLog, err := logger.New(cfg.Server.Mode, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	// amounts serialize as JSON numbers, matching the wire format clients expect
	decimal.MarshalJSONWithoutQuotes = true

	// init database; Init pings before the server accepts traffic
	db, err := database.Init(cfg.Database)
	if err != nil {
		zapLog.Fatal("init database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		zapLog.Fatal("migrate database", zap.Error(err))
	}

	r := router.Setup(cfg, db, zapLog)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLog.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown server", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		zapLog.Error("close database", zap.Error(err))
	}
}
