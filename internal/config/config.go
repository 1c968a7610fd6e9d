package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DB DBConfig

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	SNSRegion      string

	S3BucketName    string
	S3PublicBaseURL string
	UploadURLExpiry time.Duration

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	OTPExpiry         time.Duration
	OTPResendCooldown time.Duration
	OTPMaxAttempts    int

	FirebaseCredentialsFile string

	AllowedOrigins []string // CORS allowed origins
	TrustedProxy   bool     // honour X-Forwarded-For / X-Real-Ip from a fronting proxy
	MetricsEnabled bool
}

// DBConfig describes the PostgreSQL connection and pool.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	AutoMigrate     bool
}

// DSN renders the libpq keyword/value connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	UserVerifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "school"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			UserVerifications: getEnv("DYNAMO_TABLE_OTP", "user_verifications"),
		},
		SNSRegion:               getEnv("SNS_REGION", "us-east-1"),
		S3BucketName:            getEnv("S3_BUCKET_NAME", "school-api-uploads"),
		S3PublicBaseURL:         strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		UploadURLExpiry:         getEnvDuration("UPLOAD_URL_EXPIRY", 15*time.Minute),
		JWTPrivateKeyPath:       getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:        getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:               getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		OTPExpiry:               getEnvDuration("OTP_EXPIRY", 5*time.Minute),
		OTPResendCooldown:       getEnvDuration("OTP_RESEND_COOLDOWN", 60*time.Second),
		OTPMaxAttempts:          getEnvInt("OTP_MAX_ATTEMPTS", 5),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		AllowedOrigins:          strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustedProxy:            getEnvBool("TRUSTED_PROXY", false),
		MetricsEnabled:          getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("15m", "168h").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
