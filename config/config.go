package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/constants"
)

// Config configuração da aplicação
type Config struct {
	HTTPAddr          string
	TelegramToken     string
	CatalogProducts   []string
	InactivityTimeout time.Duration
	ReminderInterval  time.Duration
}

// Load carrega a configuração do ambiente (e do .env, se existir)
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":5000"),
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		CatalogProducts:   parseCatalog(os.Getenv("CATALOG_PRODUCTS")),
		InactivityTimeout: getEnvSeconds("INACTIVITY_TIMEOUT_SECONDS", constants.DefaultInactivityTimeout),
		ReminderInterval:  getEnvSeconds("REMINDER_INTERVAL_SECONDS", constants.DefaultReminderInterval),
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	return cfg, nil
}

// parseCatalog lê uma lista separada por vírgulas; vazio usa o catálogo
// padrão da fruteira
func parseCatalog(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return constants.DefaultCatalog
	}
	var products []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			products = append(products, p)
		}
	}
	if len(products) == 0 {
		return constants.DefaultCatalog
	}
	return products
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
