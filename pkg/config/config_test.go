package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver, "sin base de datos se usa sqlite")
	assert.Equal(t, config.AnnotationsRemote, cfg.UI.Annotations)
	assert.Equal(t, "https://api.insee.fr/api-sirene/3.11", cfg.Sirene.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Sirene.Timeout)
	assert.Equal(t, 300, cfg.Search.Limit)
	assert.Empty(t, cfg.JWT.Secret, "la autenticación es opcional")
}

func TestLoad_PostgresPorDefectoConDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/prospection?sslmode=disable")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/prospection?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_DriverPostgresSinDB_Error(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_BackendDesconocido_Error(t *testing.T) {
	t.Setenv("UI_ANNOTATIONS", "cookies")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_SearchDemo(t *testing.T) {
	t.Setenv("SEARCH_DEMO", "true")
	t.Setenv("PORT", "5000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Sirene.Demo)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTP.Addr())
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "prospection", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/prospection?sslmode=disable", c.DSN())
}

func TestUIConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, config.UIConfig{Timezone: "Nowhere/Atlantis"}.Location())
	assert.Equal(t, "Europe/Paris", config.UIConfig{Timezone: "Europe/Paris"}.Location().String())
}
