package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/worklog/pkg/timefmt"
)

const (
	defaultPath      = "~/.worklog.db"
	defaultBackupURL = "http://localhost:3000/backup"
)

// Config locates the store and its collaborators.
type Config interface {
	// BasePath is the directory holding the key-value files.
	BasePath() string
	// BackupURL is where `worklog backup` posts snapshots.
	BackupURL() string
	// Today is the day key commands act on when no --date is given.
	Today() string
}

// LoadConfig reads .worklog.yaml from WORKLOG_CONFIG_PATH or the working
// directory, overlaid with WORKLOG_* environment variables.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("backup.url", defaultBackupURL)
	v.SetDefault("date", "")
	v.SetConfigName(".worklog") // .yaml is implicit
	v.SetEnvPrefix("WORKLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("WORKLOG_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	cfg := &fileConfig{
		Path:   path,
		Backup: v.GetString("backup.url"),
	}
	if date := v.GetString("date"); date != "" {
		d, err := timefmt.ParseDate(date)
		if err != nil {
			return nil, err
		}
		cfg.Date = d
	}
	return cfg, nil
}

type fileConfig struct {
	Path   string `json:"path"`
	Backup string `json:"backupURL"`
	Date   string `json:"date,omitempty"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) BackupURL() string {
	return f.Backup
}

func (f *fileConfig) Today() string {
	if f.Date != "" {
		return f.Date
	}
	return timefmt.Today(time.Now())
}
