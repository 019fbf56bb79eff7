package sessionjwt

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// minTTLSeconds is the minimum TTL for either token flavor.
const minTTLSeconds = 64

// Config holds the settings consumed by the session core.
//
// Fields:
//   - Secret: Shared HMAC signing secret (min 64 bytes)
//   - AccessTTL: Access token validity duration (min 64s)
//   - RefreshTTL: Refresh token validity duration (min 64s)
//   - AccessCookieName: Cookie slot carrying the access token
//   - RefreshCookieName: Cookie slot carrying the refresh token
//   - CookieDomain: Domain attribute for issued cookies
//   - CookieSecure: Secure attribute for issued cookies
type Config struct {
	Secret            string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	AccessCookieName  string
	RefreshCookieName string
	CookieDomain      string
	CookieSecure      bool
}

// DefaultConfig returns a Config with the standard cookie slots and
// sensible TTLs; only the secret must be supplied.
func DefaultConfig(secret string) Config {
	return Config{
		Secret:            secret,
		AccessTTL:         15 * time.Minute,
		RefreshTTL:        7 * 24 * time.Hour,
		AccessCookieName:  "token",
		RefreshCookieName: "refreshToken",
		CookieDomain:      "localhost",
		CookieSecure:      true,
	}
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if len(config.Secret) < minSecretLength {
		return fmt.Errorf("signing secret must be at least %d bytes", minSecretLength)
	}
	if config.AccessTTL < minTTLSeconds*time.Second {
		return fmt.Errorf("access token TTL must be at least %d seconds", minTTLSeconds)
	}
	if config.RefreshTTL < minTTLSeconds*time.Second {
		return fmt.Errorf("refresh token TTL must be at least %d seconds", minTTLSeconds)
	}
	if config.AccessCookieName == "" || config.RefreshCookieName == "" {
		return fmt.Errorf("cookie names cannot be empty")
	}
	if config.AccessCookieName == config.RefreshCookieName {
		return fmt.Errorf("access and refresh cookie names must differ")
	}
	return nil
}

// envConfig mirrors the environment schema of the API deployment.
type envConfig struct {
	Secret            string `mapstructure:"jwt_secret" validate:"required,min=64"`
	AccessTTLSecs     int    `mapstructure:"jwt_ttl_secs" validate:"required,min=64"`
	RefreshTTLSecs    int    `mapstructure:"refresh_jwt_ttl_secs" validate:"required,min=64"`
	AccessCookieName  string `mapstructure:"jwt_cookie_name" validate:"required"`
	RefreshCookieName string `mapstructure:"refresh_jwt_cookie_name" validate:"required"`
	CookieDomain      string `mapstructure:"jwt_cookie_domain" validate:"required"`
	CookieSecure      bool   `mapstructure:"jwt_cookie_secure"`

	RedisHost     string `mapstructure:"redis_host" validate:"required"`
	RedisPort     int    `mapstructure:"redis_port" validate:"required,min=1,max=65535"`
	RedisDB       int    `mapstructure:"redis_db" validate:"min=0"`
	RedisUsername string `mapstructure:"redis_username"`
	RedisPassword string `mapstructure:"redis_password"`
}

func loadEnvConfig() (*envConfig, error) {
	v := viper.New()

	// Every key needs a default so Unmarshal sees the env-bound values;
	// the validator still rejects empty required fields.
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl_secs", 0)
	v.SetDefault("refresh_jwt_ttl_secs", 0)
	v.SetDefault("jwt_cookie_name", "token")
	v.SetDefault("refresh_jwt_cookie_name", "refreshToken")
	v.SetDefault("jwt_cookie_domain", "localhost")
	v.SetDefault("jwt_cookie_secure", true)
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_username", "")
	v.SetDefault("redis_password", "")

	for _, key := range []string{
		"jwt_secret", "jwt_ttl_secs", "refresh_jwt_ttl_secs",
		"jwt_cookie_name", "refresh_jwt_cookie_name",
		"jwt_cookie_domain", "jwt_cookie_secure",
		"redis_host", "redis_port", "redis_db", "redis_username", "redis_password",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	var env envConfig
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&env); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &env, nil
}

// LoadConfigFromEnv builds a Config from environment variables
// (JWT_SECRET, JWT_TTL_SECS, REFRESH_JWT_TTL_SECS, cookie and Redis
// settings), applying the same bounds the deployment schema enforces.
func LoadConfigFromEnv() (Config, error) {
	env, err := loadEnvConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Secret:            env.Secret,
		AccessTTL:         time.Duration(env.AccessTTLSecs) * time.Second,
		RefreshTTL:        time.Duration(env.RefreshTTLSecs) * time.Second,
		AccessCookieName:  env.AccessCookieName,
		RefreshCookieName: env.RefreshCookieName,
		CookieDomain:      env.CookieDomain,
		CookieSecure:      env.CookieSecure,
	}, nil
}

// RedisOptionsFromEnv builds Redis client options from the same
// environment schema (REDIS_HOST, REDIS_PORT, REDIS_DB, REDIS_USERNAME,
// REDIS_PASSWORD).
func RedisOptionsFromEnv() (*redis.Options, error) {
	env, err := loadEnvConfig()
	if err != nil {
		return nil, err
	}

	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", env.RedisHost, env.RedisPort),
		DB:       env.RedisDB,
		Username: env.RedisUsername,
		Password: env.RedisPassword,
	}, nil
}
