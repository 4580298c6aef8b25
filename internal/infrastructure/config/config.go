package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Courier  CourierConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
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
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CourierConfig groups per-provider credentials. Credentials are deliberately
// NOT validated at load time: not every deployment uses every courier, so a
// missing credential only fails when that provider is first used.
type CourierConfig struct {
	// RequestTimeout bounds every outbound courier HTTP call
	RequestTimeout time.Duration
	Steadfast      SteadfastConfig
	RedX           RedXConfig
	Pathao         PathaoConfig
	CarryBee       CarryBeeConfig
}

// SteadfastConfig holds Steadfast Courier credentials
type SteadfastConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
}

// RedXConfig holds RedX Delivery credentials
type RedXConfig struct {
	BaseURL string
	APIKey  string
}

// PathaoConfig holds Pathao Courier credentials. Pathao issues short-lived
// bearer tokens via an OAuth-style password grant.
type PathaoConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	StoreID      int
}

// CarryBeeConfig holds CarryBee credentials (integration pending)
type CarryBeeConfig struct {
	BaseURL string
	APIKey  string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with DOKANIFY_ prefix (e.g., DOKANIFY_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("DOKANIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
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
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Courier: CourierConfig{
			RequestTimeout: v.GetDuration("courier.request_timeout"),
			Steadfast: SteadfastConfig{
				BaseURL:   v.GetString("courier.steadfast.base_url"),
				APIKey:    v.GetString("courier.steadfast.api_key"),
				SecretKey: v.GetString("courier.steadfast.secret_key"),
			},
			RedX: RedXConfig{
				BaseURL: v.GetString("courier.redx.base_url"),
				APIKey:  v.GetString("courier.redx.api_key"),
			},
			Pathao: PathaoConfig{
				BaseURL:      v.GetString("courier.pathao.base_url"),
				ClientID:     v.GetString("courier.pathao.client_id"),
				ClientSecret: v.GetString("courier.pathao.client_secret"),
				Username:     v.GetString("courier.pathao.username"),
				Password:     v.GetString("courier.pathao.password"),
				StoreID:      v.GetInt("courier.pathao.store_id"),
			},
			CarryBee: CarryBeeConfig{
				BaseURL: v.GetString("courier.carrybee.base_url"),
				APIKey:  v.GetString("courier.carrybee.api_key"),
			},
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
		cfg.App.Name = "dokanify-backend"
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
		cfg.Database.DBName = "dokanify"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
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
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Courier.RequestTimeout == 0 {
		cfg.Courier.RequestTimeout = 30 * time.Second
	}
	if cfg.Courier.Steadfast.BaseURL == "" {
		cfg.Courier.Steadfast.BaseURL = "https://portal.packzy.com/api/v1"
	}
	if cfg.Courier.RedX.BaseURL == "" {
		cfg.Courier.RedX.BaseURL = "https://openapi.redx.com.bd/v1.0.0-beta"
	}
	if cfg.Courier.Pathao.BaseURL == "" {
		cfg.Courier.Pathao.BaseURL = "https://courier-api-sandbox.pathao.com"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Courier.RequestTimeout <= 0 {
		return fmt.Errorf("courier.request_timeout must be positive")
	}
	return nil
}

// IsProduction returns true when running in the production environment
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
