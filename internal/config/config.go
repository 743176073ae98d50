package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Config carries every tunable the app needs. It is built once in main and
// passed down explicitly; nothing reads the environment after startup.
type Config struct {
	Port    string `envconfig:"PORT" default:"5000"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:5000"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"boscoshop"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTAccessSecret   string `envconfig:"JWT_ACCESS_SECRET" default:"dev-access-secret"`
	JWTRefreshSecret  string `envconfig:"JWT_REFRESH_SECRET" default:"dev-refresh-secret"`
	AccessExpiresMin  int    `envconfig:"JWT_ACCESS_EXPIRES_MIN" default:"60"`
	RefreshExpiresHrs int    `envconfig:"JWT_REFRESH_EXPIRES_HRS" default:"168"`

	StorageDir string `envconfig:"STORAGE_DIR" default:"uploads"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`

	SMTPHost        string `envconfig:"SMTP_HOST"`
	SMTPPort        string `envconfig:"SMTP_PORT"`
	SMTPUser        string `envconfig:"SMTP_USER"`
	SMTPPass        string `envconfig:"SMTP_PASS"`
	OrderNotifyMail string `envconfig:"ORDER_NOTIFY_EMAIL"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,https://boscoapparel.vercel.app"`

	dsnOverride string `ignored:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		// full DSN overrides the piecewise vars, parsed back apart by DSN()
		cfg.dsnOverride = dsn
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	if c.dsnOverride != "" {
		return c.dsnOverride
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "" || c.AppEnv == "development" || c.AppEnv == "dev"
}
