package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	keyRegion        = "REGION_NAME"
	keyThumbnailSize = "THUMBNAIL_SIZE"
	keyTable         = "DYNAMODB_TABLE"
	keyS3Endpoint    = "S3_ENDPOINT"
	keyLogLevel      = "LOG_LEVEL"
)

// Config is built once at cold start and shared read-only by every invocation.
type Config struct {
	Region        string
	ThumbnailSize int
	TableName     string

	// S3Endpoint overrides the default regional endpoint, e.g. for LocalStack.
	S3Endpoint string
	LogLevel   string
}

// Load reads the process configuration from the environment (and a .env file
// if one exists). It fails if any required key is absent or invalid.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(keyLogLevel, "info")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Region:     strings.TrimSpace(v.GetString(keyRegion)),
		TableName:  strings.TrimSpace(v.GetString(keyTable)),
		S3Endpoint: strings.TrimSpace(v.GetString(keyS3Endpoint)),
		LogLevel:   v.GetString(keyLogLevel),
	}

	var problems []string
	if cfg.Region == "" {
		problems = append(problems, keyRegion+" is required")
	}
	if cfg.TableName == "" {
		problems = append(problems, keyTable+" is required")
	}

	rawSize := strings.TrimSpace(v.GetString(keyThumbnailSize))
	if rawSize == "" {
		problems = append(problems, keyThumbnailSize+" is required")
	} else {
		size, err := strconv.Atoi(rawSize)
		if err != nil || size <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive integer, got %q", keyThumbnailSize, rawSize))
		} else {
			cfg.ThumbnailSize = size
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}
