package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/trezcool/attendance/client"
	"github.com/trezcool/attendance/core"
	logsvc "github.com/trezcool/attendance/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		zl := zerolog.New(os.Stderr)
		zl.Fatal().Err(err).Msg("loading config")
	}
	conf.Log.Pretty = true
	logger := logsvc.NewZerolog(conf, "cli", os.Stderr)

	apiURL := conf.Web.APIBaseURL // WEB_API_BASE_URL
	cli := commandLine{
		api: client.New(apiURL),
		out: os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error().Err(err).Str("api", apiURL).Msg("command failed")
		}
		os.Exit(1)
	}
}
