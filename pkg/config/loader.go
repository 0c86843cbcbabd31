package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without the APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.nats_url", "NATS_URL", "APP_QUEUE_NATS_URL")
	viper.BindEnv("queue.rabbitmq_url", "RABBITMQ_URL", "APP_QUEUE_RABBITMQ_URL")
	viper.BindEnv("services.device_base_url", "DEVICE_SERVICE_URL")
	viper.BindEnv("services.user_base_url", "USER_SERVICE_URL")
	viper.BindEnv("notification.sendgrid_api_key", "SENDGRID_API_KEY")
	viper.BindEnv("vault.address", "VAULT_ADDR")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file is fine, env vars carry the deploy
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "enerlytics")
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("queue.driver", "nats")
	viper.SetDefault("queue.usage_topic", "energy-usage")
	viper.SetDefault("queue.alert_topic", "energy-alerts")
	viper.SetDefault("queue.consumer_group", "usage-service")
	viper.SetDefault("services.lookup_timeout", 10*time.Second)
	viper.SetDefault("alerting.window", time.Hour)
	viper.SetDefault("alerting.message", "Energy consumption threshold exceeded")
	viper.SetDefault("redis.cache_ttl", 5*time.Minute)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", time.Minute)
	viper.SetDefault("circuit_breaker.timeout", 30*time.Second)
}
