package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // /debug/pprof

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	dig_container "github.com/trezcool/attendance/apps/api/di/dig"
	echoapi "github.com/trezcool/attendance/apps/api/echo"
	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
)

func main() {
	c := dig_container.New()
	must(c.Invoke(run))
}

func run(
	conf *core.Config,
	apiLogger core.Logger,
	dbLoggerParam dig_container.DBLoggerParam,
	store *dig_container.Store,
	validate *validator.Validate,
	translator ut.Translator,
	server *echoapi.Server,
) error {
	// =========================================================================
	// Initialize App

	apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	dbLogger := dbLoggerParam.Logger
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()
	defer apiLogger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("database").Set(conf.Database.Engine)

	if conf.Server.DebugHost != "" {
		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()
	}

	// =========================================================================
	// Start API Service

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		// the store is closed on return, main exits non-zero afterwards
		return errors.Wrap(err, "server error")

	case sig := <-server.ShutdownSignal():
		apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shut down and shed load
		if err := server.Shutdown(ctx); err != nil {
			apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				return errors.Wrap(err, "could not force stop server")
			}
		}
	}
	return nil
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
