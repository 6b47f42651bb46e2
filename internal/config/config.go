package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains all settings for the upstream chat-completion API.
// The API is OpenAI-compatible; BaseURL selects the provider
// (SiliconFlow, DeepSeek, OpenAI, ...).
type LLMConfig struct {
	APIKey                string  `mapstructure:"api_key"                 validate:"required"`
	BaseURL               string  `mapstructure:"base_url"                validate:"omitempty,url"`
	Model                 string  `mapstructure:"model"                   validate:"required"`
	Temperature           float64 `mapstructure:"temperature"             validate:"gte=0,lte=2"`
	MaxTokens             int     `mapstructure:"max_tokens"              validate:"required,gt=0"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	MaxRetries            int     `mapstructure:"max_retries"             validate:"gte=0"`
	RetryDelaySeconds     int     `mapstructure:"retry_delay_seconds"     validate:"gte=0"`
}

// TaskConfig contains settings for background task processing.
type TaskConfig struct {
	// WorkerCount determines how many concurrent workers consume the
	// task queue (whole generation requests, not chapters).
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// QueueSize is the buffer size for the in-memory task queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// ChapterPoolSize bounds how many chapter generations run
	// concurrently across all in-flight document tasks.
	ChapterPoolSize int `mapstructure:"chapter_pool_size" validate:"required,gt=0"`

	// CacheSize caps the in-memory task status tier; settled tasks
	// beyond the cap are evicted oldest-first.
	CacheSize int `mapstructure:"cache_size" validate:"required,gt=0"`
}
