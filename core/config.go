package core

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Database engines
const (
	EngineMongo  = "mongo"
	EngineMemory = "memory"
)

type (
	ServerConfig struct {
		Port            int
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
		AllowOrigins    []string
	}

	DatabaseConfig struct {
		Engine         string
		URI            string
		Name           string
		ConnectTimeout time.Duration
	}

	LogConfig struct {
		Level  string
		Pretty bool
	}

	WebConfig struct {
		Port       int
		APIBaseURL string
	}

	Config struct {
		AppName      string
		Build        string
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Log      LogConfig
		Web      WebConfig
	}
)

// Addr is the address the API server listens on.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Addr is the address the static web server listens on.
func (c WebConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// NewConfig loads the configuration from defaults, an optional `.env.<env>` file and the environment.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if err := loadDotEnv(env); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("appName", "Attendance")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.allowOrigins", []string{"*"})

	v.SetDefault("database.engine", EngineMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017/attendance")
	v.SetDefault("database.name", "attendance")
	v.SetDefault("database.connectTimeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", env == "DEV")

	v.SetDefault("web.port", 80)
	v.SetDefault("web.apiBaseURL", "http://localhost:5000")

	// names used by the deployment files
	bindings := map[string]string{
		"appName":                 "APP_NAME",
		"rollbarToken":            "ROLLBAR_TOKEN",
		"server.port":             "PORT",
		"server.debugHost":        "SERVER_DEBUG_HOST",
		"server.shutdownTimeout":  "SERVER_SHUTDOWN_TIMEOUT",
		"server.disableReqLogs":   "SERVER_DISABLE_REQ_LOGS",
		"server.allowOrigins":     "CORS_ALLOW_ORIGINS",
		"database.uri":            "MONGO_URI",
		"database.connectTimeout": "DATABASE_CONNECT_TIMEOUT",
		"web.apiBaseURL":          "WEB_API_BASE_URL",
	}
	for key, name := range bindings {
		if err := v.BindEnv(key, name); err != nil {
			return nil, errors.Wrapf(err, "binding %s", name)
		}
	}

	conf := &Config{
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
			AllowOrigins:    splitList(v.GetStringSlice("server.allowOrigins")),
		},
		Database: DatabaseConfig{
			Engine:         strings.ToLower(v.GetString("database.engine")),
			URI:            v.GetString("database.uri"),
			Name:           v.GetString("database.name"),
			ConnectTimeout: v.GetDuration("database.connectTimeout"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Pretty: v.GetBool("log.pretty"),
		},
		Web: WebConfig{
			Port:       v.GetInt("web.port"),
			APIBaseURL: strings.TrimRight(v.GetString("web.apiBaseURL"), "/"),
		},
	}

	switch conf.Database.Engine {
	case EngineMongo, EngineMemory:
	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
	return conf, nil
}

// loadDotEnv loads `.env.<env>` from the working directory or `config/` if it exists (ignored if it does not).
func loadDotEnv(env string) error {
	name := ".env." + strings.ToLower(env)
	for _, dir := range []string{".", "config"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			if err = godotenv.Load(path); err != nil {
				return errors.Wrapf(err, "loading %s", path)
			}
			return nil
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "stat %s", path)
		}
	}
	return nil
}

// splitList accepts both repeated values and a single comma separated env value.
func splitList(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, val := range vals {
		for _, s := range strings.Split(val, ",") {
			if s = CleanString(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
