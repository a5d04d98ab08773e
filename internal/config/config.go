package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Reset     ResetConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	Upload    UploadConfig
	Geocoder  GeocoderConfig
	MQTT      MQTTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	PublicURL   string
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type JWTConfig struct {
	Secret           string
	Expiry           time.Duration
	CookieExpireDays int
}

type ResetConfig struct {
	TokenTTL time.Duration
}

type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	FromName  string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type UploadConfig struct {
	Backend     string // local | s3
	Path        string
	MaxBytes    int64
	S3Bucket    string
	S3Region    string
	S3Prefix    string
	// S3Endpoint overrides the AWS endpoint, e.g. for MinIO.
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

type GeocoderConfig struct {
	URL        string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PUBLIC_URL", "http://localhost:5000")

	v.SetDefault("MONGO_DATABASE", "devcamper")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")

	v.SetDefault("JWT_EXPIRE", "720h")
	v.SetDefault("JWT_COOKIE_EXPIRE_DAYS", 30)
	v.SetDefault("RESET_TOKEN_TTL", "10m")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("FROM_NAME", "DevCamper")

	v.SetDefault("REDIS_ADDR", "localhost:6379")

	v.SetDefault("UPLOAD_BACKEND", "local")
	v.SetDefault("FILE_UPLOAD_PATH", "./public/uploads")
	v.SetDefault("MAX_FILE_UPLOAD", 1000000)

	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("GEOCODER_TIMEOUT", "10s")
	v.SetDefault("GEOCODER_MAX_RETRIES", 3)

	v.SetDefault("MQTT_CLIENT_ID", "bootcamp-directory")
	v.SetDefault("MQTT_TOPIC", "devcamper/events")

	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 10)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 100)

	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})
	v.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"})
}

// Load reads an optional .env file and the process environment. The result
// is built once at startup and treated as immutable afterwards.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(homeDir)
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: v.GetString("ENVIRONMENT"),
			PublicURL:   v.GetString("PUBLIC_URL"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("MONGO_URI"),
			Database:       v.GetString("MONGO_DATABASE"),
			ConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		},
		JWT: JWTConfig{
			Secret:           v.GetString("JWT_SECRET"),
			Expiry:           v.GetDuration("JWT_EXPIRE"),
			CookieExpireDays: v.GetInt("JWT_COOKIE_EXPIRE_DAYS"),
		},
		Reset: ResetConfig{
			TokenTTL: v.GetDuration("RESET_TOKEN_TTL"),
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			User:      v.GetString("SMTP_USER"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromEmail: v.GetString("FROM_EMAIL"),
			FromName:  v.GetString("FROM_NAME"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Upload: UploadConfig{
			Backend:     v.GetString("UPLOAD_BACKEND"),
			Path:        v.GetString("FILE_UPLOAD_PATH"),
			MaxBytes:    v.GetInt64("MAX_FILE_UPLOAD"),
			S3Bucket:    v.GetString("S3_BUCKET"),
			S3Region:    v.GetString("S3_REGION"),
			S3Prefix:    v.GetString("S3_PREFIX"),
			S3Endpoint:  v.GetString("S3_ENDPOINT"),
			S3AccessKey: v.GetString("S3_ACCESS_KEY"),
			S3SecretKey: v.GetString("S3_SECRET_KEY"),
		},
		Geocoder: GeocoderConfig{
			URL:        v.GetString("GEOCODER_URL"),
			APIKey:     v.GetString("GEOCODER_API_KEY"),
			Timeout:    v.GetDuration("GEOCODER_TIMEOUT"),
			MaxRetries: v.GetInt("GEOCODER_MAX_RETRIES"),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("MQTT_BROKER"),
			ClientID: v.GetString("MQTT_CLIENT_ID"),
			Username: v.GetString("MQTT_USERNAME"),
			Password: v.GetString("MQTT_PASSWORD"),
			Topic:    v.GetString("MQTT_TOPIC"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   v.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   v.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.Reset.TokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("MAX_FILE_UPLOAD must be positive"))
	}
	if c.Upload.Backend != "local" && c.Upload.Backend != "s3" {
		errs = append(errs, fmt.Errorf("UPLOAD_BACKEND must be local or s3, got %q", c.Upload.Backend))
	}
	if c.Upload.Backend == "s3" && c.Upload.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required when UPLOAD_BACKEND=s3"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// CookieSecure is true only in production-like deployments.
func (c *Config) CookieSecure() bool {
	return c.IsProduction()
}

func (c *Config) CookieMaxAge() time.Duration {
	return time.Duration(c.JWT.CookieExpireDays) * 24 * time.Hour
}
