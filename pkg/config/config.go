// Файл: pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// AuthConfig — учетные данные прокси 1С (data/auth.json).
// Токен уходит в тело запроса создания заказа, логин и пароль —
// в конфиг запроса номера заявки.
type AuthConfig struct {
	Token    string `json:"TOKEN_1C" validate:"required"`
	Login    string `json:"LOGIN_1C" validate:"required"`
	Password string `json:"PASSWORD_1C" validate:"required"`
}

// ProxyConfig — адреса прокси 1С (data/config.json).
// WsPaths сопоставляет код региона (spb, msk, reg) пути запроса номера.
type ProxyConfig struct {
	ProxyURL  string            `json:"proxy_url" validate:"required,url"`
	OrderPath string            `json:"order_path" validate:"required"`
	WsPaths   map[string]string `json:"ws_paths" validate:"required,min=1"`
}

// StorageConfig — пути артефактов процесса.
type StorageConfig struct {
	IntakeLogPath string
	DumpDir       string
}

type ServerConfig struct {
	Port string
}

type Config struct {
	Auth         AuthConfig
	Proxy        ProxyConfig
	Storage      StorageConfig
	Server       ServerConfig
	TemplatePath string
	LogPath      string
}

// Load читает конфигурацию один раз при старте процесса.
// Повторного чтения по ходу обработки не бывает.
func Load() (*Config, error) {
	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		Storage: StorageConfig{
			IntakeLogPath: getEnv("INTAKE_LOG_PATH", "./clients_info.txt"),
			DumpDir:       getEnv("ORDER_DUMP_DIR", "."),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		TemplatePath: filepath.Join(dataDir, "order_template.json"),
		LogPath:      getEnv("LOG_PATH", "./logs/app.log"),
	}

	if err := readJSON(filepath.Join(dataDir, "auth.json"), &cfg.Auth); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dataDir, "config.json"), &cfg.Proxy); err != nil {
		return nil, err
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("конфигурация не прошла валидацию: %w", err)
	}

	return cfg, nil
}

func readJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("не удалось прочитать %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("не удалось разобрать %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
