package dig_container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/attendance/apps/api/echo"
	"github.com/trezcool/attendance/core/attendance"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Setenv("ENV", "TEST")
	t.Setenv("LOG_LEVEL", "disabled")
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestNew_memory(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_ENGINE": "memory"})

	err := New().Invoke(func(store *Store, svc attendance.ServiceInterface, server *echoapi.Server) {
		require.NotNil(t, server)
		ctx := context.Background()

		rec, err := svc.Create(ctx, attendance.NewRecord{StudentName: "Alice"})
		require.NoError(t, err)
		assert.Equal(t, attendance.DefaultStatus, rec.Status)

		recs, err := store.Repo.QueryAllRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, 1)
		assert.NoError(t, store.Close(ctx))
	})
	require.NoError(t, err)
}

func TestNew_mongoUnreachable(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_ENGINE":          "mongo",
		"MONGO_URI":                "mongodb://127.0.0.1:1/attendance",
		"DATABASE_CONNECT_TIMEOUT": "100ms",
	})

	err := New().Invoke(func(store *Store) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err := store.Repo.QueryAllRecords(ctx)
		assert.Error(t, err)
		assert.NoError(t, store.Close(ctx))
	})
	require.NoError(t, err, "an unreachable database must not prevent startup")
}

func TestNew_invalidURI(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_ENGINE": "mongo",
		"MONGO_URI":       "postgres://localhost/attendance",
	})

	err := New().Invoke(func(*Store) {})
	assert.Error(t, err)
}
