package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	keyToken = "token"
	keyRole  = "role"
	keyName  = "name"
)

// FileStore persists the session as a small key file on disk. The format is
// chosen from the file extension (json, yaml, toml...).
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store writing to path. The path needs an extension
// viper understands.
func NewFileStore(path string) (*FileStore, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("session: %s: file extension required", path)
	}
	supported := false
	for _, e := range viper.SupportedExts {
		if e == ext {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("session: %s: unsupported file type %q", path, ext)
	}
	return &FileStore{path: path}, nil
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, app, "session.json"), nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, err
	}
	v := viper.New()
	v.SetConfigFile(f.path)
	if err := v.ReadInConfig(); err != nil {
		return Session{}, fmt.Errorf("session: read %s: %w", f.path, err)
	}
	return Session{
		Token: v.GetString(keyToken),
		Role:  v.GetString(keyRole),
		Name:  v.GetString(keyName),
	}, nil
}

// Save writes all three keys to a temporary file and renames it into place,
// so readers see either the old or the new session, never a mix.
func (f *FileStore) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigPermissions(0o600)
	v.Set(keyToken, s.Token)
	v.Set(keyRole, s.Role)
	v.Set(keyName, s.Name)

	ext := filepath.Ext(f.path)
	tmp := strings.TrimSuffix(f.path, ext) + ".tmp" + ext
	if err := v.WriteConfigAs(tmp); err != nil {
		return fmt.Errorf("session: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
