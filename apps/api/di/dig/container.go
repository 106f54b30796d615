package dig_container

import (
	"context"
	"log"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/attendance/apps/api/echo"
	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	logsvc "github.com/trezcool/attendance/services/logger"
	inmemdb "github.com/trezcool/attendance/storage/database/inmem"
	"github.com/trezcool/attendance/storage/database/mongodb"
)

const defaultConnectTimeout = 10 * time.Second

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Store is the Record Store selected by the configuration along with its release func.
type Store struct {
	Repo  attendance.Repository
	Close func(context.Context) error
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewZerolog(conf, "api"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewZerolog(conf, "db"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newStore never fails because the database is unreachable: that is logged,
// and requests fail until the database comes back.
func newStore(conf *core.Config, loggerParam DBLoggerParam) (*Store, error) {
	logger := loggerParam.Logger

	if conf.Database.Engine == core.EngineMemory {
		db, err := inmemdb.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening in-memory database")
		}
		logger.Warn("using the in-memory database: records are lost on restart")
		return &Store{
			Repo:  inmemdb.NewAttendanceRepository(db),
			Close: func(context.Context) error { return nil },
		}, nil
	}

	timeout := conf.Database.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongodb.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	db := mongodb.Database(client, conf)

	if err = mongodb.Ping(ctx, client); err != nil {
		logger.Error("database unreachable", err)
	} else if err = mongodb.Migrate(ctx, db); err != nil {
		logger.Error("migrating database", err)
	} else {
		logger.Info("database connected", map[string]interface{}{"database": db.Name()})
	}

	return &Store{
		Repo:  mongodb.NewAttendanceRepository(db),
		Close: client.Disconnect,
	}, nil
}

func newRepository(store *Store) attendance.Repository {
	return store.Repo
}

func newValidator() *validator.Validate {
	return validator.New()
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	svc attendance.ServiceInterface,
	validate *validator.Validate,
	translator ut.Translator,
) echoapi.Deps {
	return echoapi.Deps{
		Conf:          conf,
		Logger:        logger,
		AttendanceSvc: svc,
		Validate:      validate,
		Translator:    translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newRepository))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(attendance.NewService, dig.As(new(attendance.ServiceInterface))))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
