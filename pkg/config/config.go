package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Queue          QueueConfig          `mapstructure:"queue"`
	Services       ServicesConfig       `mapstructure:"services"`
	Alerting       AlertingConfig       `mapstructure:"alerting"`
	Notification   NotificationConfig   `mapstructure:"notification"`
	Vault          VaultConfig          `mapstructure:"vault"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// QueueConfig selects the message broker. Driver is "nats" or "rabbitmq".
type QueueConfig struct {
	Driver        string `mapstructure:"driver"`
	NATSURL       string `mapstructure:"nats_url"`
	RabbitMQURL   string `mapstructure:"rabbitmq_url"`
	UsageTopic    string `mapstructure:"usage_topic"`
	AlertTopic    string `mapstructure:"alert_topic"`
	ConsumerGroup string `mapstructure:"consumer_group"`
}

type ServicesConfig struct {
	DeviceBaseURL string        `mapstructure:"device_base_url"`
	UserBaseURL   string        `mapstructure:"user_base_url"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
}

type AlertingConfig struct {
	// Window is the trailing interval summed on each run. The scheduler
	// also aligns run starts to multiples of this duration.
	Window  time.Duration `mapstructure:"window"`
	Message string        `mapstructure:"message"`
}

type NotificationConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromEmail      string `mapstructure:"from_email"`
	FromName       string `mapstructure:"from_name"`
}

type VaultConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CircuitBreakerConfig struct {
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
