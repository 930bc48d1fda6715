package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront API.
type Config struct {
	AppPort     string
	BaseURL     string
	CORSOrigins string
	LogLevel    string

	DBDriver    string
	DatabaseDSN string
	Timezone    string
	Location    *time.Location

	AdminEmail        string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration

	EmailJS EmailJSConfig
	PayTR   PayTRConfig

	RabbitMQURL   string
	CloudinaryURL string
	UploadDir     string
	SeedFile      string
	WhatsAppPhone string
	HTTPTimeout   time.Duration

	warnings []string
}

// EmailJSConfig is the service/template/key set used for transactional mail.
type EmailJSConfig struct {
	ServiceID          string
	AdminTemplateID    string
	CustomerTemplateID string
	PublicKey          string
	PrivateKey         string
	AdminEmail         string
}

// Enabled reports whether enough of the triple is present to send mail.
func (c EmailJSConfig) Enabled() bool {
	return c.ServiceID != "" && c.AdminTemplateID != "" && c.PublicKey != ""
}

// PayTRConfig carries the merchant credentials for the hosted payment page.
type PayTRConfig struct {
	MerchantID   string
	MerchantKey  string
	MerchantSalt string
	TestMode     bool
	OkURL        string
	FailURL      string
}

// Enabled reports whether card payments can be initiated.
func (c PayTRConfig) Enabled() bool {
	return c.MerchantID != "" && c.MerchantKey != "" && c.MerchantSalt != ""
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

// FromValues builds a Config from explicit key/value pairs on top of the
// defaults, ignoring the process environment.
func FromValues(values map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, value := range values {
		v.Set(key, value)
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "celenk.db")
	v.SetDefault("TIMEZONE", "Europe/Istanbul")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("PAYTR_TEST_MODE", false)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		BaseURL:           strings.TrimRight(v.GetString("BASE_URL"), "/"),
		CORSOrigins:       v.GetString("CORS_ORIGINS"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		Timezone:          v.GetString("TIMEZONE"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		EmailJS: EmailJSConfig{
			ServiceID:          v.GetString("EMAILJS_SERVICE_ID"),
			AdminTemplateID:    v.GetString("EMAILJS_TEMPLATE_ID"),
			CustomerTemplateID: v.GetString("EMAILJS_CUSTOMER_TEMPLATE_ID"),
			PublicKey:          v.GetString("EMAILJS_PUBLIC_KEY"),
			PrivateKey:         v.GetString("EMAILJS_PRIVATE_KEY"),
			AdminEmail:         v.GetString("ADMIN_EMAIL"),
		},
		PayTR: PayTRConfig{
			MerchantID:   v.GetString("PAYTR_MERCHANT_ID"),
			MerchantKey:  v.GetString("PAYTR_MERCHANT_KEY"),
			MerchantSalt: v.GetString("PAYTR_MERCHANT_SALT"),
			TestMode:     v.GetBool("PAYTR_TEST_MODE"),
		},
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		CloudinaryURL: v.GetString("CLOUDINARY_URL"),
		UploadDir:     v.GetString("UPLOAD_DIR"),
		SeedFile:      v.GetString("SEED_FILE"),
		WhatsAppPhone: v.GetString("WHATSAPP_PHONE"),
		HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		cfg.warn(fmt.Sprintf("TIMEZONE %q could not be loaded, falling back to UTC", cfg.Timezone))
		loc = time.UTC
	}
	cfg.Location = loc

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = cfg.BaseURL
	}
	cfg.PayTR.OkURL = cfg.BaseURL + "/odeme/basarili"
	cfg.PayTR.FailURL = cfg.BaseURL + "/odeme/basarisiz"

	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		cfg.warn("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set; admin login is disabled")
	}
	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.warn("SESSION_SECRET not set; using a random secret, sessions end on restart")
		cfg.SessionSecret = secret
	}
	if !cfg.EmailJS.Enabled() {
		cfg.warn("EmailJS service/template/key not set; order emails will only be logged")
	}
	if !cfg.PayTR.Enabled() {
		cfg.warn("PayTR merchant credentials not set; card payments will fall back to WhatsApp")
	}
	if cfg.RabbitMQURL == "" {
		cfg.warn("RABBITMQ_URL not set; notifications are delivered in-process")
	}
	if cfg.CloudinaryURL == "" {
		cfg.warn("CLOUDINARY_URL not set; uploads are stored in " + cfg.UploadDir)
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (c *Config) warn(msg string) {
	c.warnings = append(c.warnings, msg)
}

// Warnings lists the non-fatal configuration problems found while loading.
func (c *Config) Warnings() []string {
	return c.warnings
}
