package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса анализа.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8000"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	// AllowedOrigin — origin фронтенда для CORS.
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:3000"`

	// MaxUploadBytes ограничивает суммарный размер загрузки; сам расчёт
	// лимитов не накладывает.
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
