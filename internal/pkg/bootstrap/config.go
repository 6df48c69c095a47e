// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 是所有服务共享的配置快照。
type Config struct {
	App     AppConfig     `yaml:"app"`
	Infra   InfraConfig   `yaml:"infra"`
	Support SupportConfig `yaml:"support"`
}

type AppConfig struct {
	Port             int           `yaml:"port"`
	LogLevel         string        `yaml:"log_level"`
	BaseURL          string        `yaml:"base_url"`
	SupportInbox     string        `yaml:"support_inbox"`
	JWT              JWTConfig     `yaml:"jwt"`
	ReminderInterval time.Duration `yaml:"reminder_interval"`
	FeatureFlags     FeatureFlags  `yaml:"feature_flags"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type FeatureFlags struct {
	EnableChatPush        bool `yaml:"enable_chat_push"`
	EnablePickupReminders bool `yaml:"enable_pickup_reminders"`
}

type InfraConfig struct {
	MySQL     MySQLConfig     `yaml:"mysql"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	SMTP      SMTPConfig      `yaml:"smtp"`
}

type MySQLConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Database     string        `yaml:"database"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	ConnMaxLife  time.Duration `yaml:"conn_max_life"`
}

type KafkaConfig struct {
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

type KafkaTopics struct {
	Notifications    string `yaml:"notifications"`
	NotificationsDLT string `yaml:"notifications_dlt"`
	ChatMessages     string `yaml:"chat_messages"`
	PushPrefix       string `yaml:"push_prefix"`
}

type RedisConfig struct {
	Addrs      []string      `yaml:"addrs"`
	Password   string        `yaml:"password"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ZookeeperConfig struct {
	Servers        []string      `yaml:"servers"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// SupportConfig 中的分诊规则是 CEL 表达式，按顺序匹配。
type SupportConfig struct {
	TriageRules []TriageRule `yaml:"triage_rules"`
}

type TriageRule struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
	Priority   string `yaml:"priority"`
}

var currentConfig atomic.Pointer[Config]

func init() {
	cfg := DefaultConfig()
	currentConfig.Store(&cfg)
}

// GetCurrentConfig 返回当前生效的配置快照，调用方不应修改返回值。
func GetCurrentConfig() *Config {
	return currentConfig.Load()
}

// SetCurrentConfig 原子替换配置快照（启动加载与 Nacos 热更新共用）。
func SetCurrentConfig(cfg *Config) {
	currentConfig.Store(cfg)
}

// DefaultConfig 返回本地开发环境的默认配置。
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			Port:             8080,
			LogLevel:         "info",
			BaseURL:          "http://localhost:3000",
			SupportInbox:     "soporte@zirako.co",
			JWT:              JWTConfig{Secret: "change-me", TTL: 7 * 24 * time.Hour},
			ReminderInterval: 10 * time.Minute,
			FeatureFlags:     FeatureFlags{EnableChatPush: true, EnablePickupReminders: true},
		},
		Infra: InfraConfig{
			MySQL: MySQLConfig{
				Host: "localhost", Port: 3306, User: "root", Database: "zirako",
				MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLife: time.Hour,
			},
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topics: KafkaTopics{
					Notifications:    "notifications",
					NotificationsDLT: "notifications-dlt",
					ChatMessages:     "chat-messages",
					PushPrefix:       "push-",
				},
			},
			Redis:     RedisConfig{Addrs: []string{"localhost:6379"}, SessionTTL: 2 * time.Minute},
			Jaeger:    JaegerConfig{Endpoint: "http://localhost:14268/api/traces"},
			Zookeeper: ZookeeperConfig{Servers: []string{"localhost:2181"}, SessionTimeout: 10 * time.Second},
			SMTP:      SMTPConfig{Host: "localhost", Port: 1025, From: "no-reply@zirako.co", FromName: "Zirako"},
		},
	}
}

// LoadConfig 读取 YAML 文件（不存在时使用默认值），再用环境变量覆盖。
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := ParseConfig(data, &cfg); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	applyEnv(&cfg)
	return &cfg, nil
}

// ParseConfig 把 YAML 内容合并到 cfg 上。
func ParseConfig(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse config yaml")
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.App.Port = getEnvInt("APP_PORT", cfg.App.Port)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.App.BaseURL = getEnv("APP_BASE_URL", cfg.App.BaseURL)
	cfg.App.SupportInbox = getEnv("SUPPORT_INBOX", cfg.App.SupportInbox)
	cfg.App.JWT.Secret = getEnv("JWT_SECRET", cfg.App.JWT.Secret)

	cfg.Infra.MySQL.Host = getEnv("MYSQL_HOST", cfg.Infra.MySQL.Host)
	cfg.Infra.MySQL.Port = getEnvInt("MYSQL_PORT", cfg.Infra.MySQL.Port)
	cfg.Infra.MySQL.User = getEnv("MYSQL_USER", cfg.Infra.MySQL.User)
	cfg.Infra.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.Infra.MySQL.Password)
	cfg.Infra.MySQL.Database = getEnv("MYSQL_DATABASE", cfg.Infra.MySQL.Database)

	cfg.Infra.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Redis.Addrs = getEnvList("REDIS_ADDRS", cfg.Infra.Redis.Addrs)
	cfg.Infra.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Infra.Redis.Password)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Zookeeper.Servers = getEnvList("ZK_SERVERS", cfg.Infra.Zookeeper.Servers)

	cfg.Infra.SMTP.Host = getEnv("SMTP_HOST", cfg.Infra.SMTP.Host)
	cfg.Infra.SMTP.Port = getEnvInt("SMTP_PORT", cfg.Infra.SMTP.Port)
	cfg.Infra.SMTP.Username = getEnv("SMTP_USERNAME", cfg.Infra.SMTP.Username)
	cfg.Infra.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.Infra.SMTP.Password)
	cfg.Infra.SMTP.From = getEnv("SMTP_FROM", cfg.Infra.SMTP.From)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
