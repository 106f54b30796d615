package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/trezcool/attendance/core"
	logsvc "github.com/trezcool/attendance/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		zl := zerolog.New(os.Stderr)
		zl.Fatal().Err(err).Msg("loading config")
	}
	logger := logsvc.NewRollbarLogger(logsvc.NewZerolog(conf, "web"), conf)
	logger.Enable(!conf.Debug)

	app := newApp(conf)
	errs := make(chan error, 1)
	go func() {
		logger.Info("web server listening", map[string]interface{}{"addr": conf.Web.Addr(), "api": conf.Web.APIBaseURL})
		if err := app.Start(conf.Web.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		logger.Fatal("web server error", err)
	case sig := <-shutdown:
		logger.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			logger.Error("could not stop web server gracefully", err)
			_ = app.Close()
		}
	}
}
