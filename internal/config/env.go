package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are looked up next to the config file, in order. Later files
// never override variables set by earlier ones or by the process
// environment, so .env.local can only fill gaps left by .env.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads dotenv files from the config file's directory so
// that ${VAR} references in the YAML can resolve. Missing files are
// fine; malformed ones are logged and skipped.
func loadEnvFiles(configPath string) {
	dir := filepath.Dir(configPath)
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("skipping unreadable env file",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
}
