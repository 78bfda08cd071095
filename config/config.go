package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPort is the local development port used when PORT is unset.
const DefaultPort = 8000

// ErrInvalidPort is returned when PORT is not a decimal integer in 0-65535.
var ErrInvalidPort = errors.New("invalid port")

// Config holds all configuration for the EduVerse backend
type Config struct {
	// Environment is informational (development, preview, production)
	Environment string `mapstructure:"environment"`

	Log struct {
		Level  string `mapstructure:"level"`  // debug, info, warn, error
		Format string `mapstructure:"format"` // console, json
	} `mapstructure:"log"`

	Server struct {
		// Port is kept raw; it is only parsed when a local server is started.
		Port              string        `mapstructure:"port"`
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
		ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	API struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		TrustProxy     bool     `mapstructure:"trust_proxy"`
		JSONBodyLimit  int64    `mapstructure:"json_body_limit"` // bytes
		RateLimit      struct {
			RequestsPerSecond int `mapstructure:"requests_per_second"`
			Burst             int `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"api"`

	ExamCoach struct {
		// QuestionBank is an optional YAML file; empty uses the built-in bank.
		QuestionBank     string `mapstructure:"question_bank"`
		CacheSize        int    `mapstructure:"cache_size"`
		MaxQuestions     int    `mapstructure:"max_questions"`
		DefaultTimeLimit int    `mapstructure:"default_time_limit"` // minutes
	} `mapstructure:"exam_coach"`

	// ConfigFile is the config file that was read, empty when none was found
	ConfigFile string `mapstructure:"-"`

	// SearchPaths are the directories config and data files were looked up in
	SearchPaths []string `mapstructure:"-"`
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.port", strconv.Itoa(DefaultPort))
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("api.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("api.trust_proxy", false)
	v.SetDefault("api.json_body_limit", 1<<20) // 1MB
	v.SetDefault("api.rate_limit.requests_per_second", 50)
	v.SetDefault("api.rate_limit.burst", 100)

	v.SetDefault("exam_coach.question_bank", "")
	v.SetDefault("exam_coach.cache_size", 1000)
	v.SetDefault("exam_coach.max_questions", 50)
	v.SetDefault("exam_coach.default_time_limit", 30)
}

// loadFromEnv sets up environment variable loading
func loadFromEnv(v *viper.Viper) {
	v.SetEnvPrefix("EDUVERSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Hosting platforms inject the port without a prefix
	_ = v.BindEnv("server.port", "PORT")
}

// LoadConfig loads configuration from file and environment variables.
// searchPaths are consulted for config.yaml in order, before the working
// directory and ./config.
func LoadConfig(searchPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range searchPaths {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	loadFromEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()
	config.SearchPaths = append([]string(nil), searchPaths...)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// ListenPort parses the configured port. Unlike the rest of the config this
// is deferred so that serverless deployments never fail on a stray PORT.
func (c *Config) ListenPort() (int, error) {
	return ParsePort(c.Server.Port)
}

// ParsePort parses a decimal port number. An empty value yields DefaultPort.
func ParsePort(raw string) (int, error) {
	if raw == "" {
		return DefaultPort, nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidPort, raw)
		}
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port > 65535 {
		return 0, fmt.Errorf("%w: %q is outside 0-65535", ErrInvalidPort, raw)
	}
	return port, nil
}

func validateConfig(config *Config) error {
	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", config.Log.Level)
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json (got %q)", config.Log.Format)
	}

	if config.Server.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("server.read_header_timeout must be positive")
	}
	if config.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	if config.API.JSONBodyLimit <= 0 {
		return fmt.Errorf("api.json_body_limit must be positive")
	}
	if config.API.RateLimit.RequestsPerSecond <= 0 || config.API.RateLimit.Burst <= 0 {
		return fmt.Errorf("api.rate_limit requires positive requests_per_second and burst")
	}

	if config.ExamCoach.CacheSize <= 0 {
		return fmt.Errorf("exam_coach.cache_size must be positive")
	}
	if config.ExamCoach.MaxQuestions < 1 || config.ExamCoach.MaxQuestions > 200 {
		return fmt.Errorf("exam_coach.max_questions must be between 1 and 200")
	}
	if config.ExamCoach.DefaultTimeLimit <= 0 {
		return fmt.Errorf("exam_coach.default_time_limit must be positive")
	}

	return nil
}
