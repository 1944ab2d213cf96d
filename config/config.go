package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Game     GameConfig     `mapstructure:"game"`
	Referral ReferralConfig `mapstructure:"referral"`
	Connect  ConnectConfig  `mapstructure:"connect"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig guards the bot-facing API. The bot process is the only caller
// and presents a static key.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// GameConfig holds the dice economics.
type GameConfig struct {
	PaidRollFee     int64 `mapstructure:"paid_roll_fee"`
	PaidMultiplier  int64 `mapstructure:"paid_multiplier"`
	FreeMultiplier  int64 `mapstructure:"free_multiplier"`
	FreeRollsPerDay int64 `mapstructure:"free_rolls_per_day"` // <= 0 means unlimited
	PaidRollsPerDay int64 `mapstructure:"paid_rolls_per_day"` // <= 0 means unlimited
}

// ReferralConfig controls code issuance and deep-link rendering.
type ReferralConfig struct {
	LinkBase   string `mapstructure:"link_base"`
	CodeLength int    `mapstructure:"code_length"`
}

// ConnectConfig controls external wallet pairing links.
type ConnectConfig struct {
	LinkBase string `mapstructure:"link_base"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: DTB_ (Dice Token Backend).
// Nested keys use underscore: DTB_DATABASE_HOST, DTB_AUTH_API_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "dice_token")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.api_key", "")
	v.SetDefault("game.paid_roll_fee", 10)
	v.SetDefault("game.paid_multiplier", 10)
	v.SetDefault("game.free_multiplier", 1)
	v.SetDefault("game.free_rolls_per_day", 3)
	v.SetDefault("game.paid_rolls_per_day", 50)
	v.SetDefault("referral.link_base", "https://t.me/dice_token_bot?start=")
	v.SetDefault("referral.code_length", 8)
	v.SetDefault("connect.link_base", "tc://connect")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: DTB_DATABASE_HOST -> database.host
	v.SetEnvPrefix("DTB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
