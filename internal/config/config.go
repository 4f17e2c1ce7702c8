package config

import (
	"os"
	"strings"

	"pet-owners/internal/domain/owners"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const DefaultOwnersFile = "config/owners.yaml"

// Config agrupa todo lo que el proceso lee al arrancar.
type Config struct {
	Addr string

	// DBDriver: memory | postgres | sqlite. Vacío => postgres si hay DSN, si no memory.
	DBDriver string
	DBDSN    string

	LogLevel  string
	LogFormat string
	LogFile   string
	AppName   string

	OwnersFile string
	Owners     []owners.Configuration
}

// Load lee .env (si existe), variables de entorno y el documento de owners.
func Load() (*Config, error) {
	// .env es opcional
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       ":" + getEnv("PORT", "8080"),
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "")),
		DBDSN:      getEnv("DB_DSN", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
		LogFile:    getEnv("LOG_FILE", ""),
		AppName:    getEnv("APP_NAME", "pet-owners"),
		OwnersFile: getEnv("OWNERS_FILE", DefaultOwnersFile),
	}

	entries, err := LoadOwners(cfg.OwnersFile)
	if err != nil {
		// Sin archivo explícito, que falte el default no es un error: arrancamos sin owners.
		if !(os.IsNotExist(errors.Cause(err)) && cfg.OwnersFile == DefaultOwnersFile) {
			return nil, err
		}
	}
	cfg.Owners = entries

	if cfg.DBDriver == "" {
		cfg.DBDriver = "memory"
		if cfg.DBDSN != "" {
			cfg.DBDriver = "postgres"
		}
	}
	switch cfg.DBDriver {
	case "memory", "postgres", "sqlite":
	default:
		return nil, errors.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
