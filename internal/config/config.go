package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// One DSN covers all postgres-backed stores; each falls back to its
	// own JSON file when unset.
	PostgresDSN      string
	ProfileFilePath  string
	ProgressFilePath string
	ChatFilePath     string

	PlanModel  string
	ChatModel  string
	SOSModel   string
	MaxRetries int
	RetryBase  time.Duration

	Cooldown  time.Duration
	TrialDays int

	Export ExportConfig
}

type ExportConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:             *port,
		Env:              env,
		PostgresDSN:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ProfileFilePath:  firstNonEmpty(strings.TrimSpace(os.Getenv("PROFILE_STORE_PATH")), "data/profiles.json"),
		ProgressFilePath: firstNonEmpty(strings.TrimSpace(os.Getenv("PROGRESS_STORE_PATH")), "data/progress.json"),
		ChatFilePath:     firstNonEmpty(strings.TrimSpace(os.Getenv("CHAT_STORE_PATH")), "data/chat.json"),
		PlanModel:        firstNonEmpty(strings.TrimSpace(os.Getenv("PLAN_MODEL")), "gemini-2.5-pro"),
		ChatModel:        firstNonEmpty(strings.TrimSpace(os.Getenv("CHAT_MODEL")), "gemini-2.5-flash"),
		SOSModel:         firstNonEmpty(strings.TrimSpace(os.Getenv("SOS_MODEL")), "gemini-2.5-flash-lite"),
		MaxRetries:       resolveInt("LLM_MAX_RETRIES", 3),
		RetryBase:        resolveDuration("LLM_RETRY_BASE", 500*time.Millisecond),
		Cooldown:         resolveDuration("CRAVING_COOLDOWN", 15*time.Minute),
		TrialDays:        resolveInt("TRIAL_DAYS", 7),
		Export:           loadExportConfig(env),
	}, nil
}

func loadExportConfig(env string) ExportConfig {
	endpoint := resolveExportEndpoint(env)
	return ExportConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_BUCKET")), "breathefree-exports"),
		UseSSL:    resolveExportUseSSL(env),
	}
}

func resolveExportEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("EXPORT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("EXPORT_S3_ENDPOINT"))
}

func resolveExportUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("EXPORT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func resolveInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func resolveDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
