package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Backend holds the shipment backend endpoints.
	Backend BackendConfig `mapstructure:",squash"`

	// Updates holds the live-update settings.
	Updates UpdatesConfig `mapstructure:",squash"`

	// Cache holds the optional response cache settings.
	Cache CacheConfig `mapstructure:",squash"`
}

// BackendConfig holds the endpoints of the shipment backend. Both are
// optional: an empty API base switches the app to mock data with an advisory
// notice, and an empty WS URL switches live updates to polling-only mode.
type BackendConfig struct {
	// APIBaseURL is the base URL for shipment fetches.
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	// WSURL is the streaming endpoint for push updates.
	WSURL string `mapstructure:"WS_URL"`
	// HTTPTimeoutSeconds bounds each shipment fetch.
	HTTPTimeoutSeconds int `mapstructure:"HTTP_TIMEOUT_SECONDS" default:"15"`
}

// HTTPTimeout returns the fetch timeout as a duration.
func (c BackendConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Configured reports whether a real backend API is available.
func (c BackendConfig) Configured() bool {
	return c.APIBaseURL != ""
}

// UpdatesConfig holds live-update delivery settings.
type UpdatesConfig struct {
	// PollIntervalSeconds is the fallback poll interval.
	PollIntervalSeconds int `mapstructure:"POLL_INTERVAL_SECONDS" default:"8"`
}

// PollInterval returns the poll interval as a duration.
func (c UpdatesConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// CacheConfig holds the optional redis response cache settings.
type CacheConfig struct {
	// RedisURL enables the response cache when non-empty.
	RedisURL string `mapstructure:"REDIS_URL"`
	// TTLSeconds is how long fetched shipment responses stay fresh.
	TTLSeconds int `mapstructure:"CACHE_TTL_SECONDS" default:"30"`
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
