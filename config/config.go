package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	QueueDriverMemory = "memory"
	QueueDriverRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port             string
	Mode             string
	CORSAllowOrigins []string
	StatsCacheTTL    time.Duration
	QueueDriver      string
	ShutdownTimeout  time.Duration

	// 統計事件重試：記憶體隊列與 Redis Stream 共用
	QueueMaxRetries   int
	QueueRetryBackoff time.Duration
	QueueStreamMaxLen int64
}

type DatabaseConfig struct {
	Driver     string
	SQLitePath string

	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

var AppConfig *Config

// LoadConfig reads defaults, an optional config.yaml in the working directory and
// environment variables (DB_HOST, REDIS_PORT, ...), in increasing priority.
func LoadConfig() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	AppConfig = &Config{
		Server:   getServerConfig(v),
		Database: getDatabaseConfig(v),
		Redis:    getRedisConfig(v),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	return AppConfig, nil
}

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "test",
			StatsCacheTTL:   time.Minute,
			QueueDriver:     QueueDriverMemory,
			ShutdownTimeout: time.Second,

			QueueMaxRetries:   3,
			QueueRetryBackoff: 100 * time.Millisecond,
			QueueStreamMaxLen: 1000,
		},
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLitePath: ":memory:",
			// 測試 PostgreSQL 用 5433 port
			Host:     "localhost",
			Port:     "5433",
			User:     "postgres",
			Password: "postgres",
			DBName:   "test_db",
			SSLMode:  "disable",
			MaxConns: 5,
			MinConns: 1,
		},
		Redis: RedisConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    "6380",
			DB:      1,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("gin.mode", "release")
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("stats.cache_ttl", 5*time.Minute)
	v.SetDefault("queue.driver", QueueDriverMemory)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.retry_backoff", 5*time.Second)
	v.SetDefault("queue.stream_max_len", 10000)

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.sqlite_path", "data/wedding.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "postgres")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("db.max_conns", 25)
	v.SetDefault("db.min_conns", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	return v
}

func getServerConfig(v *viper.Viper) ServerConfig {
	return ServerConfig{
		Port:             v.GetString("server.port"),
		Mode:             v.GetString("gin.mode"),
		CORSAllowOrigins: splitList(v.GetStringSlice("cors.allow_origins")),
		StatsCacheTTL:    v.GetDuration("stats.cache_ttl"),
		QueueDriver:      v.GetString("queue.driver"),
		ShutdownTimeout:  v.GetDuration("server.shutdown_timeout"),

		QueueMaxRetries:   v.GetInt("queue.max_retries"),
		QueueRetryBackoff: v.GetDuration("queue.retry_backoff"),
		QueueStreamMaxLen: v.GetInt64("queue.stream_max_len"),
	}
}

func getDatabaseConfig(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Driver:     strings.ToLower(v.GetString("db.driver")),
		SQLitePath: v.GetString("db.sqlite_path"),
		Host:       v.GetString("db.host"),
		Port:       v.GetString("db.port"),
		User:       v.GetString("db.user"),
		Password:   v.GetString("db.password"),
		DBName:     v.GetString("db.name"),
		SSLMode:    v.GetString("db.ssl_mode"),
		MaxConns:   v.GetInt32("db.max_conns"),
		MinConns:   v.GetInt32("db.min_conns"),
	}
}

func getRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Enabled:  v.GetBool("redis.enabled"),
		Host:     v.GetString("redis.host"),
		Port:     v.GetString("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

// splitList accepts both a yaml list and a comma separated env value.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
