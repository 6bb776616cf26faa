package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DB struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"password"`
	Name     string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
	// ConnectAttempts bounds the startup ping loop; the server keeps running without a store.
	ConnectAttempts int           `mapstructure:"connect_attempts"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
}

// DSN returns URL when set, otherwise a key/value DSN built from the parts.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Pass, d.Name, d.SSLMode)
}

type MQ struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
	Buffer   int    `mapstructure:"buffer"`
}

type Redis struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type CORS struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type Server struct {
	Port      int    `mapstructure:"port"`
	PublicURL string `mapstructure:"public_url"`
	StaticDir string `mapstructure:"static_dir"`
	CORS      CORS   `mapstructure:"cors"`
	// ClientBuffer is the per-connection outbound queue of the push channel.
	ClientBuffer int `mapstructure:"client_buffer"`
}

type Payment struct {
	Mode        string `mapstructure:"mode"` // demo | payfast
	Env         string `mapstructure:"env"`  // sandbox | production
	MerchantID  string `mapstructure:"merchant_id"`
	MerchantKey string `mapstructure:"merchant_key"`
}

type Orders struct {
	StrictTransitions bool  `mapstructure:"strict_transitions"`
	NodeID            int64 `mapstructure:"node_id"`
}

type QRCode struct {
	Size      int `mapstructure:"size"`
	MaxTables int `mapstructure:"max_tables"`
}

type App struct {
	Env      string  `mapstructure:"env"`
	LogLevel string  `mapstructure:"log_level"`
	Database DB      `mapstructure:"database"`
	Rabbit   MQ      `mapstructure:"rabbitmq"`
	Redis    Redis   `mapstructure:"redis"`
	Server   Server  `mapstructure:"server"`
	Payment  Payment `mapstructure:"payment"`
	Orders   Orders  `mapstructure:"orders"`
	QRCode   QRCode  `mapstructure:"qrcode"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.url", "")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "restaurant_system")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.connect_attempts", 3)
	v.SetDefault("database.retry_delay", 2*time.Second)

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("rabbitmq.vhost", "/")
	v.SetDefault("rabbitmq.exchange", "notifications_fanout")
	v.SetDefault("rabbitmq.queue", "notifications_queue")
	v.SetDefault("rabbitmq.buffer", 256)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.client_buffer", 64)
	v.SetDefault("server.cors.allow_credentials", false)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("server.cors.allowed_headers", []string{"Accept", "Content-Type", "X-Request-Id"})
	v.SetDefault("server.cors.max_age", 300)

	v.SetDefault("payment.mode", "demo")
	v.SetDefault("payment.env", "sandbox")
	v.SetDefault("payment.merchant_id", "10000100")
	v.SetDefault("payment.merchant_key", "46f0cd694581a")

	v.SetDefault("orders.strict_transitions", false)
	v.SetDefault("orders.node_id", 1)

	v.SetDefault("qrcode.size", 256)
	v.SetDefault("qrcode.max_tables", 200)
}

// Load reads path (or the first config.yaml found) layered under the
// environment. A missing config file is not an error.
func Load(path string) (App, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./deploy")
		v.AddConfigPath("/etc/restaurant-system")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return App{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("RESTAURANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	var a App
	if err := v.Unmarshal(&a); err != nil {
		return App{}, fmt.Errorf("decode config: %w", err)
	}
	if err := a.validate(); err != nil {
		return App{}, err
	}
	return a, nil
}

// bindLegacyEnv keeps the variable names the deployment scripts already set.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "RESTAURANT_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", "RESTAURANT_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("server.public_url", "RESTAURANT_SERVER_PUBLIC_URL", "RENDER_EXTERNAL_URL")
	_ = v.BindEnv("payment.merchant_id", "RESTAURANT_PAYMENT_MERCHANT_ID", "PAYFAST_MERCHANT_ID")
	_ = v.BindEnv("payment.merchant_key", "RESTAURANT_PAYMENT_MERCHANT_KEY", "PAYFAST_MERCHANT_KEY")
	_ = v.BindEnv("payment.env", "RESTAURANT_PAYMENT_ENV", "PAYFAST_ENV")
	_ = v.BindEnv("env", "RESTAURANT_ENV", "NODE_ENV")
}

func (a App) validate() error {
	if a.Server.Port <= 0 || a.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d", a.Server.Port)
	}
	if a.Database.URL == "" && (a.Database.Host == "" || a.Database.Name == "") {
		return errors.New("invalid config: missing database url or host/database")
	}
	if a.Rabbit.Enabled && a.Rabbit.Host == "" {
		return errors.New("invalid config: missing rabbitmq host")
	}
	switch a.Payment.Mode {
	case "demo", "payfast":
	default:
		return fmt.Errorf("invalid config: payment.mode %q", a.Payment.Mode)
	}
	return nil
}
