package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file if one exists in
// the current or parent directory. Safe to call more than once.
func LoadEnv(logger *logrus.Logger) {
	once.Do(func() {
		if logger == nil {
			logger = logrus.New()
		}

		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.Warnf("Error loading .env file: %v", err)
			return
		}
		logger.Infof("Loaded environment variables from %s", envFile)
	})
}

// GetEnv retrieves an environment variable with a fallback value.
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
