package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	MongoURI   string

	StorageDriver      string
	Bucket             string
	Region             string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Endpoint         string
	S3PublicBaseURL    string

	JWTSecret string

	UploadConcurrency int
	UploadMaxBytes    int64
	ImageMaxWidth     int
	ImageMaxHeight    int
	ImageQuality      int
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
	DriverS3       = "s3"
)

var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "text",
	"DB_DRIVER":               DriverPostgres,
	"DB_HOST":                 "localhost",
	"DB_PORT":                 "5432",
	"DB_USER":                 "postgres",
	"DB_PASSWORD":             "",
	"DB_NAME":                 "restaurants",
	"DB_SSLMODE":              "disable",
	"MONGO_URI":               "mongodb://localhost:27017/restaurants",
	"STORAGE_DRIVER":          DriverS3,
	"AWS_STORAGE_BUCKET_NAME": "",
	"AWS_S3_REGION_NAME":      "us-east-1",
	"AWS_ACCESS_KEY_ID":       "",
	"AWS_SECRET_ACCESS_KEY":   "",
	"AWS_S3_ENDPOINT":         "",
	"AWS_S3_PUBLIC_BASE_URL":  "",
	"JWT_SECRET":              "",
	"UPLOAD_CONCURRENCY":      4,
	"UPLOAD_MAX_BYTES":        32 << 20,
	"IMAGE_MAX_WIDTH":         400,
	"IMAGE_MAX_HEIGHT":        400,
	"IMAGE_QUALITY":           90,
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:      v.GetString("PORT"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),
		MongoURI:   v.GetString("MONGO_URI"),

		StorageDriver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
		Bucket:             v.GetString("AWS_STORAGE_BUCKET_NAME"),
		Region:             v.GetString("AWS_S3_REGION_NAME"),
		AWSAccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		S3Endpoint:         v.GetString("AWS_S3_ENDPOINT"),
		S3PublicBaseURL:    v.GetString("AWS_S3_PUBLIC_BASE_URL"),

		JWTSecret: v.GetString("JWT_SECRET"),

		UploadConcurrency: v.GetInt("UPLOAD_CONCURRENCY"),
		UploadMaxBytes:    v.GetInt64("UPLOAD_MAX_BYTES"),
		ImageMaxWidth:     v.GetInt("IMAGE_MAX_WIDTH"),
		ImageMaxHeight:    v.GetInt("IMAGE_MAX_HEIGHT"),
		ImageQuality:      v.GetInt("IMAGE_QUALITY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.StorageDriver {
	case DriverS3:
		if c.Bucket == "" {
			return errors.New("AWS_STORAGE_BUCKET_NAME is required for s3 storage")
		}
		if c.AWSAccessKeyID == "" || c.AWSSecretAccessKey == "" {
			return errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required for s3 storage")
		}
	case DriverMemory:
		if c.Bucket == "" {
			c.Bucket = "local"
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.UploadConcurrency < 1 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be positive, got %d", c.UploadConcurrency)
	}
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		return fmt.Errorf("IMAGE_QUALITY must be between 1 and 100, got %d", c.ImageQuality)
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
