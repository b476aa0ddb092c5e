package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Widget    WidgetConfig    `mapstructure:"widget"`
	Log       LogConfig       `mapstructure:"log"`
}

// GatewayConfig 网关配置
type GatewayConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // local, production
}

// AssistantConfig 问答后端配置（外部协作方）
type AssistantConfig struct {
	BaseURL string        `mapstructure:"base_url"` // 问答端点, 如 http://localhost:3000/api/chat
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres
	DSN  string `mapstructure:"dsn"`
}

// SessionConfig 在线会话存储配置
type SessionConfig struct {
	Store    string        `mapstructure:"store"` // memory, redis
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// WidgetConfig 聊天组件配置
type WidgetConfig struct {
	Greeting   string `mapstructure:"greeting"`
	LeadPrompt string `mapstructure:"lead_prompt"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// 原站点的开场白，未配置时使用
const defaultGreeting = "Hi, I am LPU AI. I can help you with your addmission queries. Ask me anything!"

// Load 加载配置
func Load() (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 分层配置加载, 优先级 (低 → 高): 默认值 → 全局 ~/.admitchat/ → 项目本地 → 环境变量
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	globalDir := filepath.Join(os.Getenv("HOME"), ".admitchat")
	v.AddConfigPath(globalDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read global config: %w", err)
		}
	}

	// 项目本地配置, 用 MergeInConfig 叠加
	for _, localDir := range []string{"./config", "."} {
		localPath := filepath.Join(localDir, "config.yaml")
		if _, err := os.Stat(localPath); err == nil {
			v2 := viper.New()
			v2.SetConfigFile(localPath)
			if err := v2.ReadInConfig(); err == nil {
				_ = v.MergeConfigMap(v2.AllSettings())
			}
			break // 只取第一个找到的本地配置
		}
	}

	// 环境变量覆盖
	v.SetEnvPrefix("ADMITCHAT")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	// Gateway 默认值
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8489)
	v.SetDefault("gateway.mode", "local")

	// Assistant 默认值
	v.SetDefault("assistant.base_url", "http://localhost:3000/api/chat")
	v.SetDefault("assistant.timeout", "60s")

	// Database 默认值
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "admitchat.db")

	// Session 默认值
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.redis_url", "redis://localhost:6379/0")
	v.SetDefault("session.ttl", "24h")

	// Widget 默认值
	v.SetDefault("widget.greeting", defaultGreeting)
	v.SetDefault("widget.lead_prompt", "Please Enter your details to get better result")

	// Log 默认值
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
