package logsvc

import (
	"io"
	"net/http"
	"os"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/rs/zerolog"

	"github.com/trezcool/attendance/core"
)

// RollbarLogger writes structured lines locally and reports them to Rollbar when enabled.
type RollbarLogger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(zl zerolog.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	return &RollbarLogger{zl: zl}
}

// NewZerolog builds the local sink. `component` is attached to every line (eg. "api", "db").
func NewZerolog(conf *core.Config, component string, out ...io.Writer) zerolog.Logger {
	var w io.Writer = os.Stdout
	if len(out) > 0 {
		w = out[0]
	}
	if conf.Log.Pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}
	level, err := zerolog.ParseLevel(conf.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", component).Logger()
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled && rollbar.Token() != "")
}

func (l *RollbarLogger) write(evt *zerolog.Event, msg string, args []interface{}) {
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			evt = evt.Err(a)
		case map[string]interface{}:
			evt = evt.Fields(a)
		case *http.Request:
			evt = evt.Str("method", a.Method).Str("uri", a.RequestURI)
		default:
			evt = evt.Interface("extra", a)
		}
	}
	evt.Msg(msg)
}

// rollbar accepts msg | error, map[string]interface{}, *http.Request
func report(msg string, args []interface{}) []interface{} {
	return append([]interface{}{msg}, args...)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(report(msg, args)...)
	l.write(l.zl.Debug(), msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(report(msg, args)...)
	l.write(l.zl.Info(), msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(report(msg, args)...)
	l.write(l.zl.Warn(), msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(report(msg, args)...)
	l.write(l.zl.Error(), msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(report(msg, args)...)
	rollbar.Wait()
	l.write(l.zl.Fatal(), msg, args)
}
