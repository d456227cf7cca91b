// Command server hosts bot opponents for connectfour clients over TCP and
// websocket.
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

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/internal/config"
	"github.com/iamasit07/connectfour/internal/logging"
	"github.com/iamasit07/connectfour/internal/service/bot"
	"github.com/iamasit07/connectfour/internal/service/cleanup"
	"github.com/iamasit07/connectfour/internal/service/host"
	transportHttp "github.com/iamasit07/connectfour/internal/transport/http"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	log := logging.Must(cfg.Debug)
	defer log.Sync()

	difficulty, err := bot.ParseDifficulty(cfg.BotDifficulty)
	if err != nil {
		log.Fatal("invalid bot difficulty", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Sessions and the bot host
	registry := host.NewRegistry(log.Named("registry"))
	srv := host.NewServer(host.Options{
		Bounds:     cfg.Bounds(),
		Difficulty: difficulty,
		Depth:      cfg.BotDepth,
	}, registry, log.Named("host"))

	// 2. Background workers
	worker := cleanup.NewWorker(registry, cfg.CleanupInterval, cfg.IdleTimeout, log.Named("cleanup"))
	go worker.Run(ctx)

	// 3. HTTP surface
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: transportHttp.NewRouter(srv, log.Named("http")),
	}
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	// 4. TCP line protocol
	tcpDone := make(chan error, 1)
	go func() {
		tcpDone <- srv.ListenAndServe(ctx, cfg.ListenAddr)
	}()

	select {
	case <-ctx.Done():
	case err := <-tcpDone:
		if err != nil {
			log.Error("tcp listener error", zap.Error(err))
		}
		tcpDone <- nil
		stop()
	}
	log.Info("server is shutting down", zap.Int("sessions", registry.Count()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registry.CloseAll()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	<-tcpDone

	log.Info("server exited gracefully")
}
