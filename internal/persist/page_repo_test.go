package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fkgwiki/nazuna/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDigest(t *testing.T) {
	a := Digest("return {}\n")
	assert.Len(t, a, 32)
	assert.Equal(t, a, Digest("return {}\n"))
	assert.NotEqual(t, a, Digest("return { x = 1 }\n"))
}

func TestNewDB_RequiresDSN(t *testing.T) {
	_, err := NewDB(context.Background(), config.DatabaseConfig{}, zap.NewNop())
	assert.True(t, errors.Is(err, ErrNoDSN))
}

func TestNewDB_BadDSN(t *testing.T) {
	_, err := NewDB(context.Background(), config.DatabaseConfig{DSN: "postgres://%zz"}, zap.NewNop())
	assert.ErrorContains(t, err, "parse dsn")
}

func TestPoolConfig_Limits(t *testing.T) {
	pc, err := poolConfig(config.DatabaseConfig{
		DSN:             "postgres://wiki@localhost:5432/nazuna",
		MaxOpenConns:    4,
		MaxIdleConns:    8,
		ConnMaxLifetime: 30 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns, "idle connections never exceed the pool size")
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "nazuna", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "nazuna", pc.ConnConfig.Database)
}

func TestPoolConfig_ZeroLimitsKeepDefaults(t *testing.T) {
	pc, err := poolConfig(config.DatabaseConfig{
		DSN: "postgres://localhost/nazuna?application_name=editor&pool_max_conns=7",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, "editor", pc.ConnConfig.RuntimeParams["application_name"])
}
