package config

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	OpenAIKey             string
	TelegramToken         string
	Model                 string
	AssistantPrompt       string
	AllowedUserIDs        []int64
	MaxCompletionTokens   int
	ContextLimit          int
	RequestTimeout        time.Duration
	Storage               string
	StoragePath           string
	PostgresURL           string
	KeepUserTurnOnFailure bool
}

func Load(path string) (Config, error) {
	if err := loadDotEnv(path); err != nil {
		log.Printf("could not read .env: %v", err)
	}

	cfg := Config{
		Model:                 getenvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		AssistantPrompt:       getenvDefault("ASSISTANT_PROMPT", "You are a friendly telegram companion"),
		MaxCompletionTokens:   getenvIntDefault("MAX_TOKENS", 4096),
		ContextLimit:          getenvIntDefault("CONTEXT_MESSAGE_LIMIT", 20),
		RequestTimeout:        time.Duration(getenvIntDefault("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		Storage:               getenvDefault("STORAGE_BACKEND", StorageSQLite),
		StoragePath:           getenvDefault("STORAGE_PATH", "data/memory.db"),
		PostgresURL:           os.Getenv("POSTGRES_URL"),
		KeepUserTurnOnFailure: getenvBoolDefault("KEEP_USER_TURN_ON_FAILURE", false),
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.OpenAIKey == "" || cfg.TelegramToken == "" {
		return cfg, errors.New("openai api key and telegram token are required")
	}

	cfg.AllowedUserIDs = parseIDs(os.Getenv("ALLOWED_TELEGRAM_USER_IDS"))

	switch cfg.Storage {
	case StorageMemory, StorageFile, StorageSQLite:
	case StoragePostgres:
		if cfg.PostgresURL == "" {
			return cfg, errors.New("POSTGRES_URL is required for the postgres backend")
		}
	default:
		return cfg, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	return cfg, nil
}

func parseIDs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			log.Printf("skipping user id %q: %v", p, err)
			continue
		}
		ids = append(ids, v)
	}
	return ids
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid int for %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid bool for %s=%q, using default %v", key, v, def)
		return def
	}
	return b
}

func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, val)
		}
	}
	return scanner.Err()
}

func parseEnvLine(line string) (string, string, bool) {
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key := strings.TrimSpace(parts[0])
	val := strings.TrimSpace(parts[1])
	val = strings.Trim(val, `"'`)
	if key == "" {
		return "", "", false
	}
	return key, val, true
}
