package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Solapi    SolapiConfig
	Kakao     KakaoConfig
	Slack     SlackConfig
	GA4       GA4Config
	AI        AIConfig
	Batch     BatchConfig
	Scheduler SchedulerConfig
	Monitor   MonitorConfig
	Kafka     KafkaConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
	Admin     AdminConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	SiteURL string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	// AutoMigrate applies pending migrations from MigrationsPath at server start
	AutoMigrate    bool
	MigrationsPath string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds admin session token settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// CookieConfig holds settings for the admin session cookie
type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite string // strict, lax, none
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
	CronSecret            string // bearer token accepted by /api/v1/cron/*
}

// StorageConfig holds S3-compatible object storage settings (Supabase Storage exposes the S3 API)
type StorageConfig struct {
	Enabled        bool
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	PublicBaseURL  string
	ForcePathStyle bool
	MaxImageWidth  int
}

// SolapiConfig holds SMS gateway credentials
type SolapiConfig struct {
	APIKey     string
	APISecret  string
	Sender     string
	BaseURL    string
	ChunkSize  int
	RatePerSec float64
	Timeout    time.Duration
}

// KakaoConfig holds KakaoTalk channel settings (sent through Solapi)
type KakaoConfig struct {
	PFID       string // Kakao channel profile id registered in Solapi
	TemplateID string // default alimtalk template
}

// SlackConfig holds the incoming webhook used for operator notifications
type SlackConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// GA4Config holds Google Analytics Data API settings
type GA4Config struct {
	PropertyID      string
	CredentialsFile string
	CacheTTL        time.Duration
}

// AIConfig holds content-generation provider settings
type AIConfig struct {
	OpenAIKey        string
	OpenAIModel      string
	OpenAIImageModel string
	GoogleAPIKey     string
	GoogleImageModel string
	ImageProvider    string // openai, google, queue
	QueueURL         string // async image queue endpoint
	QueueKey         string
	PollInterval     time.Duration
	PollAttempts     int
}

// BatchConfig holds batch content processor settings
type BatchConfig struct {
	Workers       int
	QueueSize     int
	RenderWithJS  bool // scrape through headless chrome instead of plain HTTP
	ScrapeTimeout time.Duration
}

// SchedulerConfig holds periodic job settings
type SchedulerConfig struct {
	Enabled             bool
	SMSDispatchInterval time.Duration
	JobTimeout          time.Duration
}

// MonitorConfig holds the A/B winner monitor settings
type MonitorConfig struct {
	Enabled     bool
	Interval    time.Duration
	Funnel      string
	Versions    []string
	MinSessions int
	Threshold   float64
	DateRange   string
}

// KafkaConfig holds domain event publishing settings
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	ProfilingEnabled  bool
	ProfilingServer   string
}

// AdminConfig names the account created when the admin table is empty
type AdminConfig struct {
	BootstrapUsername string
	BootstrapPassword string
	BootstrapName     string
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
//  1. Environment variables with MAS_ prefix (e.g., MAS_DATABASE_PASSWORD)
//  2. .env file in the working directory
//  3. config.toml
//  4. Built-in defaults
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			SiteURL: v.GetString("app.site_url"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
			MigrationsPath:  v.GetString("database.migrations_path"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
			Issuer:                v.GetString("jwt.issuer"),
		},
		Cookie: CookieConfig{
			Name:     v.GetString("cookie.name"),
			Domain:   v.GetString("cookie.domain"),
			Path:     v.GetString("cookie.path"),
			Secure:   v.GetBool("cookie.secure"),
			SameSite: v.GetString("cookie.same_site"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
			CronSecret:            v.GetString("http.cron_secret"),
		},
		Storage: StorageConfig{
			Enabled:        v.GetBool("storage.enabled"),
			Endpoint:       v.GetString("storage.endpoint"),
			Region:         v.GetString("storage.region"),
			Bucket:         v.GetString("storage.bucket"),
			AccessKey:      v.GetString("storage.access_key"),
			SecretKey:      v.GetString("storage.secret_key"),
			PublicBaseURL:  v.GetString("storage.public_base_url"),
			ForcePathStyle: v.GetBool("storage.force_path_style"),
			MaxImageWidth:  v.GetInt("storage.max_image_width"),
		},
		Solapi: SolapiConfig{
			APIKey:     v.GetString("solapi.api_key"),
			APISecret:  v.GetString("solapi.api_secret"),
			Sender:     v.GetString("solapi.sender"),
			BaseURL:    v.GetString("solapi.base_url"),
			ChunkSize:  v.GetInt("solapi.chunk_size"),
			RatePerSec: v.GetFloat64("solapi.rate_per_sec"),
			Timeout:    v.GetDuration("solapi.timeout"),
		},
		Kakao: KakaoConfig{
			PFID:       v.GetString("kakao.pf_id"),
			TemplateID: v.GetString("kakao.template_id"),
		},
		Slack: SlackConfig{
			WebhookURL: v.GetString("slack.webhook_url"),
			Timeout:    v.GetDuration("slack.timeout"),
		},
		GA4: GA4Config{
			PropertyID:      v.GetString("ga4.property_id"),
			CredentialsFile: v.GetString("ga4.credentials_file"),
			CacheTTL:        v.GetDuration("ga4.cache_ttl"),
		},
		AI: AIConfig{
			OpenAIKey:        v.GetString("ai.openai_key"),
			OpenAIModel:      v.GetString("ai.openai_model"),
			OpenAIImageModel: v.GetString("ai.openai_image_model"),
			GoogleAPIKey:     v.GetString("ai.google_api_key"),
			GoogleImageModel: v.GetString("ai.google_image_model"),
			ImageProvider:    v.GetString("ai.image_provider"),
			QueueURL:         v.GetString("ai.queue_url"),
			QueueKey:         v.GetString("ai.queue_key"),
			PollInterval:     v.GetDuration("ai.poll_interval"),
			PollAttempts:     v.GetInt("ai.poll_attempts"),
		},
		Batch: BatchConfig{
			Workers:       v.GetInt("batch.workers"),
			QueueSize:     v.GetInt("batch.queue_size"),
			RenderWithJS:  v.GetBool("batch.render_with_js"),
			ScrapeTimeout: v.GetDuration("batch.scrape_timeout"),
		},
		Scheduler: SchedulerConfig{
			Enabled:             v.GetBool("scheduler.enabled"),
			SMSDispatchInterval: v.GetDuration("scheduler.sms_dispatch_interval"),
			JobTimeout:          v.GetDuration("scheduler.job_timeout"),
		},
		Monitor: MonitorConfig{
			Enabled:     v.GetBool("monitor.enabled"),
			Interval:    v.GetDuration("monitor.interval"),
			Funnel:      v.GetString("monitor.funnel"),
			Versions:    v.GetStringSlice("monitor.versions"),
			MinSessions: v.GetInt("monitor.min_sessions"),
			Threshold:   v.GetFloat64("monitor.threshold"),
			DateRange:   v.GetString("monitor.date_range"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("kafka.enabled"),
			Brokers: v.GetStringSlice("kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			ProfilingServer:   v.GetString("telemetry.profiling_server"),
		},
		Admin: AdminConfig{
			BootstrapUsername: v.GetString("admin.bootstrap_username"),
			BootstrapPassword: v.GetString("admin.bootstrap_password"),
			BootstrapName:     v.GetString("admin.bootstrap_name"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "masgolf-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "masgolf"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 12 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "masgolf-admin"
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "admin_session"
	}
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.SameSite == "" {
		cfg.Cookie.SameSite = "lax"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// analytics and batch endpoints wait on slow upstreams
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 20 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Hard-Delete"}
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-northeast-2"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "blog-images"
	}
	if cfg.Storage.MaxImageWidth == 0 {
		cfg.Storage.MaxImageWidth = 1600
	}
	if cfg.Solapi.BaseURL == "" {
		cfg.Solapi.BaseURL = "https://api.solapi.com"
	}
	if cfg.Solapi.ChunkSize == 0 {
		cfg.Solapi.ChunkSize = 200
	}
	if cfg.Solapi.RatePerSec == 0 {
		cfg.Solapi.RatePerSec = 5
	}
	if cfg.Solapi.Timeout == 0 {
		cfg.Solapi.Timeout = 30 * time.Second
	}
	if cfg.Slack.Timeout == 0 {
		cfg.Slack.Timeout = 10 * time.Second
	}
	if cfg.GA4.CacheTTL == 0 {
		cfg.GA4.CacheTTL = 5 * time.Minute
	}
	if cfg.AI.OpenAIModel == "" {
		cfg.AI.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.AI.OpenAIImageModel == "" {
		cfg.AI.OpenAIImageModel = "dall-e-3"
	}
	if cfg.AI.GoogleImageModel == "" {
		cfg.AI.GoogleImageModel = "imagen-3.0-generate-002"
	}
	if cfg.AI.ImageProvider == "" {
		cfg.AI.ImageProvider = "openai"
	}
	if cfg.AI.PollInterval == 0 {
		cfg.AI.PollInterval = 10 * time.Second
	}
	if cfg.AI.PollAttempts == 0 {
		cfg.AI.PollAttempts = 30
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = 2
	}
	if cfg.Batch.QueueSize == 0 {
		cfg.Batch.QueueSize = 16
	}
	if cfg.Batch.ScrapeTimeout == 0 {
		cfg.Batch.ScrapeTimeout = 30 * time.Second
	}
	if cfg.Scheduler.SMSDispatchInterval == 0 {
		cfg.Scheduler.SMSDispatchInterval = time.Minute
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 10 * time.Minute
	}
	if cfg.Monitor.Interval == 0 {
		cfg.Monitor.Interval = 15 * time.Minute
	}
	if cfg.Monitor.Funnel == "" {
		cfg.Monitor.Funnel = "funnel-2025-08"
	}
	if len(cfg.Monitor.Versions) == 0 {
		cfg.Monitor.Versions = []string{"live-a", "live-b"}
	}
	if cfg.Monitor.MinSessions == 0 {
		cfg.Monitor.MinSessions = 100
	}
	if cfg.Monitor.Threshold == 0 {
		cfg.Monitor.Threshold = 85
	}
	if cfg.Monitor.DateRange == "" {
		cfg.Monitor.DateRange = "7daysAgo"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "masgolf.events"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "masgolf-backend"
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 15 * time.Second
	}
	if cfg.Telemetry.ProfilingServer == "" {
		cfg.Telemetry.ProfilingServer = "http://localhost:4040"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Solapi.ChunkSize <= 0 || c.Solapi.ChunkSize > 10000 {
		return fmt.Errorf("solapi.chunk_size must be between 1 and 10000, got %d", c.Solapi.ChunkSize)
	}
	if c.Monitor.Threshold < 50 || c.Monitor.Threshold > 95 {
		return fmt.Errorf("monitor.threshold must be between 50 and 95, got %.1f", c.Monitor.Threshold)
	}
	switch c.AI.ImageProvider {
	case "openai", "google", "queue":
	default:
		return fmt.Errorf("ai.image_provider must be one of openai, google, queue, got %q", c.AI.ImageProvider)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production")
		}
		if c.HTTP.CronSecret == "" {
			return fmt.Errorf("http.cron_secret is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production")
			}
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port pair for the Redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
