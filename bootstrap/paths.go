package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	searchPath   []string
	searchPathMu sync.RWMutex
)

// EntryDir returns the absolute, symlink-free directory of the running executable
func EntryDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}

// PrependSearchPath puts dir at the front of the process-wide resource search
// path. Prepending the same directory twice leaves a duplicate entry, which
// only repeats a lookup.
func PrependSearchPath(dir string) {
	searchPathMu.Lock()
	defer searchPathMu.Unlock()
	searchPath = append([]string{dir}, searchPath...)
}

// SearchPath returns a copy of the resource search path, highest priority first
func SearchPath() []string {
	searchPathMu.RLock()
	defer searchPathMu.RUnlock()
	return append([]string(nil), searchPath...)
}

// LoadEnvFiles loads the .env file of each directory, in order. Variables
// that are already set, including by an earlier file, are never overridden.
func LoadEnvFiles(dirs []string) ([]string, error) {
	var loaded []string
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
