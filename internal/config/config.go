package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Goals    GoalConfig
	Cache    CacheConfig
	SMTP     SMTPConfig
	Billing  BillingConfig
	OAuth    OAuthConfig
	Export   ExportConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	RefreshTopic       string
	EvalIntervalMin    int
	PageSize           int
}

type DatabaseConfig struct {
	Connection string
}

// GoalConfig holds the alert thresholds. These are the three required goals
// plus the optional tuning knobs; the evaluator fails fast on missing values.
type GoalConfig struct {
	MonthlyRevenueGoal float64
	MaxChurnRate       float64
	MinLTV             float64
	MaxTrialShare      float64
}

type CacheConfig struct {
	TTLSeconds int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	AlertsTo   string
}

type BillingConfig struct {
	ServerKey   string
	Environment string // "sandbox" or "production"
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type ExportConfig struct {
	OutputDir string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			RefreshTopic:       getEnv("METRICS_REFRESH_TOPIC", "metrics.refresh"),
			EvalIntervalMin:    getEnvAsInt("EVAL_INTERVAL_MINUTES", 15),
			PageSize:           getEnvAsInt("PAGE_SIZE", 50),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Goals: GoalConfig{
			MonthlyRevenueGoal: getEnvAsFloat("REVENUE_GOAL", 60000),
			MaxChurnRate:       getEnvAsFloat("MAX_CHURN_RATE", 0.05),
			MinLTV:             getEnvAsFloat("MIN_LTV", 1000),
			MaxTrialShare:      getEnvAsFloat("MAX_TRIAL_SHARE", 0.15),
		},
		Cache: CacheConfig{
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 300),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "DataCloud Analytics"),
			AlertsTo:   getEnv("ALERTS_EMAIL_TO", ""),
		},
		Billing: BillingConfig{
			ServerKey:   getEnv("MIDTRANS_SERVER_KEY", ""),
			Environment: getEnv("MIDTRANS_ENV", "sandbox"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/api/auth/google/callback"),
		},
		Export: ExportConfig{
			OutputDir: getEnv("EXPORT_DIR", "exports"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
