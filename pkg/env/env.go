package env

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnv loads .env from the working directory. A missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using system envs")
	}
}

func GetEnv(key string, fallback string) string {
	if value, exist := os.LookupEnv(key); exist {
		return value
	}
	return fallback
}
