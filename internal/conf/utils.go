package conf

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaultConfigPaths returns the paths to search for a config file,
// in priority order: current directory first, then the user config dir.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// No user config dir (e.g. HOME unset); current directory still works
		return paths, nil //nolint:nilerr // degrade to cwd-only search
	}
	paths = append(paths, filepath.Join(configDir, "superhear"))

	return paths, nil
}

// EnsureDirectoryExists creates the directory if it does not already exist.
func EnsureDirectoryExists(path string) error {
	if path == "" {
		return fmt.Errorf("directory path is empty")
	}
	return os.MkdirAll(path, 0o755)
}
