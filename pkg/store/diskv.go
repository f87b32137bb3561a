package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/worklog/pkg/logging"
)

const (
	notesDir  = "notes"
	timersDir = "timers"
	timerPfx  = "timer_"
)

// Disk is a KV backed by diskv: one file per key, notes and timers kept in
// separate sub-directories of the base path. Reads always go to disk since
// other processes write the same files.
type Disk struct {
	d        *diskv.Diskv
	basePath string
	log      logging.Logger
}

// Open creates a Disk rooted at cfg.BasePath(). A nil cfg loads the
// configuration from the environment.
func Open(cfg Config) (*Disk, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      0,
	}), basePath: basePath}, nil
}

// SetLogger routes the watcher diagnostics to l. Nil restores the default.
func (s *Disk) SetLogger(l logging.Logger) {
	s.log = l
}

// Logger is where the watcher reports recoverable failures.
func (s *Disk) Logger() logging.Logger {
	return logging.OrDefault(s.log)
}

func (s *Disk) logf(format string, args ...interface{}) {
	s.Logger().Printf(format, args...)
}

// BasePath is the root directory of the store.
func (s *Disk) BasePath() string {
	return s.basePath
}

func (s *Disk) Get(key string) ([]byte, bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}
	if !s.d.Has(key) {
		return nil, false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (s *Disk) Set(key string, val []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	return s.d.Write(key, val)
}

func (s *Disk) Remove(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Disk) Keys(ctx context.Context) []string {
	var keys []string
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	return sortedKeys(keys)
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}

func keyToPathTransform(key string) *diskv.PathKey {
	dir := notesDir
	if strings.HasPrefix(key, timerPfx) {
		dir = timersDir
	}
	return &diskv.PathKey{
		Path:     []string{dir},
		FileName: key,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
