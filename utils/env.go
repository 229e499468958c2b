package utils

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// LoadEnv loads environment variables from a .env file if present, searching
// upward from the working directory. Existing environment variables are not
// overwritten.
func LoadEnv() {
	loadOnce.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			return
		}

		// Walk up at most 3 levels looking for a .env file
		dir := cwd
		for i := 0; i < 3; i++ {
			path := filepath.Join(dir, ".env")
			if st, err := os.Stat(path); err == nil && !st.IsDir() {
				_ = godotenv.Load(path)
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	})
}

// GetEnv returns the value of key, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
