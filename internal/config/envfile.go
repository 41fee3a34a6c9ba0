package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFiles are read from the working directory, most specific first.
var EnvFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads EnvFiles found in dir into the process environment.
// Variables that are already set keep their value, and a variable from an
// earlier file wins over a later one. Missing files are skipped.
func LoadEnvFiles(dir string) error {
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}
