package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/config"
	"recipe-costing/internal/core"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("SERVER_PORT")
	t.Setenv("DATABASE_URL", "postgres://localhost/costing")
	t.Setenv("LOGGER_LEVEL", "debug")

	require.NoError(t, config.Load(filepath.Join(t.TempDir(), "missing.env")))

	c := config.C()
	assert.Equal(t, 8080, c.Server.Port())
	assert.Equal(t, ":8080", c.Server.Address())
	assert.Equal(t, int64(1<<20), c.Server.BodyLimitBytes())
	assert.Equal(t, "postgres://localhost/costing", c.Postgres.DSN())
	assert.Equal(t, "debug", c.Logger.Level())
	assert.False(t, c.Logger.AsJSON())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("UNITS_FILE=units.yaml\nLOGGER_AS_JSON=true\n"), 0o600))
	t.Setenv("UNITS_FILE", "")
	os.Unsetenv("UNITS_FILE")
	t.Setenv("LOGGER_AS_JSON", "")
	os.Unsetenv("LOGGER_AS_JSON")

	require.NoError(t, config.Load(path))
	assert.Equal(t, "units.yaml", config.C().Units.File())
	assert.True(t, config.C().Logger.AsJSON())
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	assert.Error(t, config.Load(filepath.Join(t.TempDir(), "missing.env")))
}

func TestRegisterUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`units:
  - code: tbsp
    category: volume
    ratio_to_base: 15
  - code: case
    category: count
    ratio_to_base: 24
`), 0o600))

	defs, err := config.ReadUnitsFile(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, core.Volume, defs[0].Category)

	require.NoError(t, config.RegisterUnits(path))

	tbsp, err := core.GetUnit("tbsp")
	require.NoError(t, err)
	assert.Equal(t, 15.0, tbsp.RatioToBase())

	err = core.RegisterUnit(core.UnitDefinition{Code: "cup", Category: core.Volume, RatioToBase: 200})
	assert.ErrorIs(t, err, core.ErrValidation, "registry is sealed after startup")
}
