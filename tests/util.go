package testutil

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	echoapi "github.com/trezcool/attendance/apps/api/echo"
	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	logsvc "github.com/trezcool/attendance/services/logger"
	inmemdb "github.com/trezcool/attendance/storage/database/inmem"
)

// ErrStoreUnavailable is what UnavailableRepository fails with.
var ErrStoreUnavailable = errors.New("server selection error: no reachable servers")

// UnavailableRepository behaves like a Record Store whose server cannot be reached.
type UnavailableRepository struct{}

var _ attendance.Repository = UnavailableRepository{}

func (UnavailableRepository) CreateRecord(context.Context, attendance.Record) (attendance.Record, error) {
	return attendance.Record{}, ErrStoreUnavailable
}

func (UnavailableRepository) QueryAllRecords(context.Context) ([]attendance.Record, error) {
	return nil, ErrStoreUnavailable
}

func NewConfig() *core.Config {
	return &core.Config{
		AppName:  "Attendance",
		Env:      "TEST",
		TestMode: true,
		Server: core.ServerConfig{
			DisableReqLogs: true,
			AllowOrigins:   []string{"*"},
		},
		Database: core.DatabaseConfig{Engine: core.EngineMemory},
		Log:      core.LogConfig{Level: "disabled"},
	}
}

func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(zerolog.Nop(), conf)
	logger.Enable(false)
	return logger
}

func NewRepository(t *testing.T) attendance.Repository {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("NewRepository() failed: %v", err)
	}
	return inmemdb.NewAttendanceRepository(db)
}

// NewServer returns an API server over repo. A nil repo gets a fresh in-memory store.
func NewServer(t *testing.T, repo attendance.Repository) *echoapi.Server {
	if repo == nil {
		repo = NewRepository(t)
	}
	conf := NewConfig()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	return echoapi.NewServer(echoapi.Deps{
		Conf:          conf,
		Logger:        NewLogger(conf),
		AttendanceSvc: attendance.NewService(repo),
		Validate:      validate,
		Translator:    translator,
	})
}

func CreateRecord(t *testing.T, repo attendance.Repository, name string, status attendance.Status) attendance.Record {
	rec, err := repo.CreateRecord(context.Background(), attendance.Record{
		StudentName: name,
		Status:      status,
		Date:        attendance.Now(),
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
