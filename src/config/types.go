package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta Environment = "beta"
	Dev  Environment = "dev"
)

type InkwellConfig struct {
	Env      Environment `toml:"env"`
	Addr     string      `toml:"addr"`
	BaseUrl  string      `toml:"base_url"`
	LogLevel string      `toml:"log_level"`

	Postgres  PostgresConfig  `toml:"postgres"`
	Drive     DriveConfig     `toml:"drive"`
	WordPress WordPressConfig `toml:"wordpress"`
	Email     EmailConfig     `toml:"email"`
	Articles  ArticlesConfig  `toml:"articles"`
}

func (c InkwellConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

type PostgresConfig struct {
	User     string `toml:"user"`
	Password string `toml:"password"`
	Hostname string `toml:"hostname"`
	Port     int    `toml:"port"`
	DbName   string `toml:"db_name"`
	LogLevel string `toml:"log_level"`
	MinConn  int32  `toml:"min_conn"`
	MaxConn  int32  `toml:"max_conn"`
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

func (info PostgresConfig) TraceLogLevel() tracelog.LogLevel {
	level, err := tracelog.LogLevelFromString(info.LogLevel)
	if err != nil {
		return tracelog.LogLevelWarn
	}
	return level
}

// DriveConfig points the document-storage adapter at the external file
// store. ParentFolderID is the folder all article folders are created
// under; MarkingGridFileID is the grading template copied into each of
// them.
type DriveConfig struct {
	BaseUrl           string `toml:"base_url"`
	UploadBaseUrl     string `toml:"upload_base_url"`
	AccessToken       string `toml:"access_token"`
	ParentFolderID    string `toml:"parent_folder_id"`
	MarkingGridFileID string `toml:"marking_grid_file_id"`
}

type WordPressConfig struct {
	BaseUrl     string `toml:"base_url"`
	Username    string `toml:"username"`
	AppPassword string `toml:"app_password"`
}

type EmailConfig struct {
	ServerAddress  string `toml:"server_address"`
	ServerPort     int    `toml:"server_port"`
	FromName       string `toml:"from_name"`
	FromAddress    string `toml:"from_address"`
	MailerUsername string `toml:"mailer_username"`
	MailerPassword string `toml:"mailer_password"`
	// All mail goes to this address instead of the real recipient. For
	// dev and beta environments.
	ForceToAddress string `toml:"force_to_address"`
}

type ArticlesConfig struct {
	// Comma-free MIME types accepted for submitted article files.
	AllowedUploadTypes []string `toml:"allowed_upload_types"`
}
