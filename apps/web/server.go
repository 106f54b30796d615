package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
)

//go:embed static
var staticFS embed.FS

// uiConfig is handed to the browser through /config.js.
type uiConfig struct {
	APIBaseURL    string              `json:"apiBaseUrl"`
	DefaultStatus attendance.Status   `json:"defaultStatus"`
	Statuses      []attendance.Status `json:"statuses"`
}

func newApp(conf *core.Config) *echo.Echo {
	app := echo.New()
	app.HideBanner = true
	app.Debug = conf.Debug

	if !conf.Server.DisableReqLogs {
		app.Use(middleware.Logger())
	}
	if !conf.Debug && !conf.TestMode {
		app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	app.GET("/config.js", configScript(conf))
	app.StaticFS("/", echo.MustSubFS(staticFS, "static"))
	return app
}

func configScript(conf *core.Config) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		data, err := json.Marshal(uiConfig{
			APIBaseURL:    conf.Web.APIBaseURL,
			DefaultStatus: attendance.DefaultStatus,
			Statuses:      attendance.Statuses,
		})
		if err != nil {
			return err
		}
		ctx.Response().Header().Set("Cache-Control", "no-store")
		return ctx.Blob(http.StatusOK, "application/javascript", []byte(fmt.Sprintf("window.APP_CONFIG = %s;\n", data)))
	}
}
