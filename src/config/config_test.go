package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("missing file keeps defaults", func(t *testing.T) {
		defer restoreConfig()
		err := Init(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, Dev, Config.Env)
		assert.Equal(t, int32(10), Config.Postgres.MaxConn)
	})
	t.Run("file overrides defaults", func(t *testing.T) {
		defer restoreConfig()
		path := filepath.Join(t.TempDir(), "inkwell.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
env = "beta"
addr = "0.0.0.0:80"

[postgres]
hostname = "db.internal"
port = 5433

[drive]
access_token = "tok"
parent_folder_id = "folder123"
`), 0644))

		err := Init(path)
		require.NoError(t, err)
		assert.Equal(t, Environment("beta"), Config.Env)
		assert.Equal(t, "0.0.0.0:80", Config.Addr)
		assert.Equal(t, "db.internal", Config.Postgres.Hostname)
		assert.Equal(t, 5433, Config.Postgres.Port)
		assert.Equal(t, "folder123", Config.Drive.ParentFolderID)
		// untouched sections keep defaults
		assert.Equal(t, "inkwell", Config.Postgres.DbName)
		assert.NotEmpty(t, Config.Articles.AllowedUploadTypes)
	})
	t.Run("bad toml is an error", func(t *testing.T) {
		defer restoreConfig()
		path := filepath.Join(t.TempDir(), "inkwell.toml")
		require.NoError(t, os.WriteFile(path, []byte(`env = `), 0644))
		assert.Error(t, Init(path))
	})
}

func TestDSN(t *testing.T) {
	cfg := PostgresConfig{User: "u", Password: "p", Hostname: "h", Port: 5432, DbName: "d"}
	assert.Equal(t, "user=u password=p host=h port=5432 dbname=d", cfg.DSN())
}

func restoreConfig() {
	Config = defaultConfig()
}
