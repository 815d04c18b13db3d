package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth" validate:"required"`
	Notification NotificationConfig `mapstructure:"notification"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=1440"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// NotificationConfig controls delivery of task notifications.
// An empty AMQPURL disables broker publishing; emails are then only logged.
// With Workers at zero, events are delivered inside the request.
type NotificationConfig struct {
	AMQPURL           string `mapstructure:"amqp_url" validate:"omitempty,url"`
	Exchange          string `mapstructure:"exchange" validate:"required_with=AMQPURL"`
	Workers           int    `mapstructure:"workers" validate:"gte=0,lte=64"`
	QueueSize         int    `mapstructure:"queue_size" validate:"gte=1"`
	JobTimeoutSeconds int    `mapstructure:"job_timeout_seconds" validate:"gte=1"`
}

// RateLimitConfig controls the Redis-backed limiter on authentication routes.
// An empty RedisURL disables rate limiting.
type RateLimitConfig struct {
	RedisURL      string `mapstructure:"redis_url" validate:"omitempty,url"`
	AuthRequests  int    `mapstructure:"auth_requests" validate:"gte=1"`
	WindowSeconds int    `mapstructure:"window_seconds" validate:"gte=1"`
}
