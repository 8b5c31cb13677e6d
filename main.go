package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cdfmlr/crud/log"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "", "path to the YAML config file")
	dumpConfig = flag.Bool("dump-config", false, "print the effective config and exit")
)

func main() {
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Logger.WithError(err).Fatal("failed to load config")
	}

	if *dumpConfig {
		if err := cfg.Write(os.Stdout); err != nil {
			log.Logger.WithError(err).Fatal("failed to write config")
		}
		return
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.Logger.SetLevel(lvl)
	} else {
		log.Logger.WithField("logLevel", cfg.LogLevel).Warn("unknown log level, keeping default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := MakeRouter(ctx, cfg)
	if err != nil {
		log.Logger.WithError(err).Fatal("failed to start")
	}

	srv := &http.Server{Addr: cfg.HttpListenAddr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Logger.WithField("addr", cfg.HttpListenAddr).Info("mehearsal listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Logger.WithError(err).Fatal("server stopped")
	}
}
