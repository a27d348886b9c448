package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// The global runtime configuration. Initialized to defaults; call Init
// before using anything that reads it.
var Config = defaultConfig()

func defaultConfig() InkwellConfig {
	return InkwellConfig{
		Env:      Dev,
		Addr:     "localhost:9001",
		BaseUrl:  "http://localhost:9001",
		LogLevel: "debug",
		Postgres: PostgresConfig{
			User:     "inkwell",
			Hostname: "localhost",
			Port:     5432,
			DbName:   "inkwell",
			LogLevel: "warn",
			MinConn:  2,
			MaxConn:  10,
		},
		Drive: DriveConfig{
			BaseUrl:       "https://www.googleapis.com/drive/v3",
			UploadBaseUrl: "https://www.googleapis.com/upload/drive/v3",
		},
		Email: EmailConfig{
			ServerPort: 587,
			FromName:   "Inkwell",
		},
		Articles: ArticlesConfig{
			AllowedUploadTypes: []string{
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				"application/vnd.oasis.opendocument.text",
				"application/vnd.google-apps.document",
				"text/plain",
			},
		},
	}
}

/*
Loads configuration from the given TOML file, layering it over the
defaults. A missing file is fine in dev - you just get the defaults -
but any other read or parse failure is fatal for the process, since
nothing downstream can run on a half-loaded config.
*/
func Init(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	cfg := defaultConfig()
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		return err
	}

	Config = cfg
	return nil
}
