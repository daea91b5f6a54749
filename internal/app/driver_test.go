package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
	"github.com/Aleph-Alpha/vectorbridge/pkg/logger"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDriverRejectsDriverNotLinkedIn(t *testing.T) {
	other := config.DriverQdrant
	if BuiltinDriver == config.DriverQdrant {
		other = config.DriverMilvus
	}
	cfg := config.DefaultConfig()
	cfg.Driver = other

	err := fx.New(fx.NopLogger, Driver(cfg)).Err()
	require.Error(t, err)

	classified := StartError(err)
	assert.Equal(t, vectordb.KindInvalidArgument, vectordb.KindOf(classified))
	assert.Contains(t, classified.Error(), "not built into this binary")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	unsetenv(t, "VECTOR_DRIVER")
	unsetenv(t, "ZAP_LOGGER_LEVEL")

	cfg, err := LoadConfig("vectorprovision")
	require.NoError(t, err)
	assert.Equal(t, BuiltinDriver, cfg.Driver)
	assert.Equal(t, logger.Info, cfg.Logger.Level)
	assert.Equal(t, "vectorprovision", cfg.Logger.ServiceName)

	cfg, err = LoadConfig("vectorbridge", Quiet)
	require.NoError(t, err)
	assert.Equal(t, logger.Off, cfg.Logger.Level)

	t.Setenv("ZAP_LOGGER_LEVEL", "debug")
	cfg, err = LoadConfig("vectorbridge", Quiet)
	require.NoError(t, err)
	assert.Equal(t, logger.Debug, cfg.Logger.Level, "an explicit level wins over Quiet")
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	t.Setenv("RAG_VECTOR_METRIC", "HAMMING")

	_, err := LoadConfig("vectorbridge")
	require.Error(t, err)
	assert.Equal(t, vectordb.KindInvalidArgument, vectordb.KindOf(err))
}
