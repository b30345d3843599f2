// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	AccountsFile           string        `mapstructure:"ACCOUNTS_FILE"`
	ServerAddress          string        `mapstructure:"SERVER_ADDRESS"`
	TokenType              string        `mapstructure:"TOKEN_TYPE"`
	TokenSymmetricKey      string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration    time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	RedisURL               string        `mapstructure:"REDIS_URL"`
	LoginAttemptsPerMinute int           `mapstructure:"LOGIN_ATTEMPTS_PER_MINUTE"`
	Environement           string        `mapstructure:"GO_ENV"`
}

var defaults = map[string]any{
	"ACCOUNTS_FILE":             "accounts.txt",
	"SERVER_ADDRESS":            "0.0.0.0:8080",
	"TOKEN_TYPE":                "paseto",
	"TOKEN_SYMMETRIC_KEY":       "",
	"ACCESS_TOKEN_DURATION":     "15m",
	"REDIS_URL":                 "",
	"LOGIN_ATTEMPTS_PER_MINUTE": 5,
	"GO_ENV":                    "production",
}

// Load read configuration from file or environment variables.
//
// A missing app.env is not an error, defaults and environment apply then.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
