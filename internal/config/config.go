package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string        `env:"PORT" envDefault:"8080"`
	DatabaseURL            string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret              string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL               time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	GoogleAudience         string        `env:"GOOGLE_AUDIENCE"`
	AllowOrigins           []string      `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	PublicBaseURL          string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	ResetLinkBaseURL       string        `env:"RESET_LINK_BASE_URL"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat              string        `env:"LOG_FORMAT" envDefault:"json"`
	LogstashTCPAddr        string        `env:"LOGSTASH_TCP_ADDR"`
	LogstashMinLevel       string        `env:"LOGSTASH_MIN_LEVEL" envDefault:"info"`
	MinIOEndpoint          string        `env:"MINIO_ENDPOINT"`
	MinIOAccessKey         string        `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey         string        `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL            bool          `env:"MINIO_USE_SSL" envDefault:"false"`
	MinIOBucketCovers      string        `env:"MINIO_BUCKET_COVERS" envDefault:"blog-covers"`
	MinIOPublicURL         string        `env:"MINIO_PUBLIC_URL"`
	SMTPHost               string        `env:"SMTP_HOST"`
	SMTPPort               int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername           string        `env:"SMTP_USERNAME"`
	SMTPPassword           string        `env:"SMTP_PASSWORD"`
	SMTPFrom               string        `env:"SMTP_FROM"`
	PasswordResetTTL       time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"10m"`
	CoverImageMaxBytes     int64         `env:"COVER_IMAGE_MAX_BYTES" envDefault:"5242880"`
	CoverImageMaxDimension int           `env:"COVER_IMAGE_MAX_DIMENSION" envDefault:"1920"`
	CoverImageMaxPixels    int64         `env:"COVER_IMAGE_MAX_PIXELS" envDefault:"40000000"`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

const minSecretLength = 32

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	cfg.AllowOrigins = trimAll(cfg.AllowOrigins)
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	cfg.ResetLinkBaseURL = strings.TrimRight(strings.TrimSpace(cfg.ResetLinkBaseURL), "/")
	if cfg.ResetLinkBaseURL == "" {
		cfg.ResetLinkBaseURL = cfg.PublicBaseURL + "/api/v1/auth/password/reset"
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.PasswordResetTTL <= 0 {
		return errors.New("PASSWORD_RESET_TTL must be positive")
	}
	if c.CoverImageMaxPixels <= 0 {
		return errors.New("COVER_IMAGE_MAX_PIXELS must be positive")
	}
	return nil
}

func (c Config) MinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

func trimAll(input []string) []string {
	out := make([]string, 0, len(input))
	for _, p := range input {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
