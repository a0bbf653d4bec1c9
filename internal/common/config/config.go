package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Consul   ConsulConfig   `json:"consul"`
	Jaeger   JaegerConfig   `json:"jaeger"`
	Auth     AuthConfig     `json:"auth"`
	Rental   RentalConfig   `json:"rental"`
	Log      LogConfig      `json:"log"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name               string `json:"name"`                 // 服务名称
	Host               string `json:"host"`                 // 服务地址
	HTTPPort           int    `json:"http_port"`            // HTTP API 端口
	GRPCPort           int    `json:"grpc_port"`            // gRPC 运维端口（健康检查用）
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec"` // 优雅退出等待秒数；<=0 用默认 5s
	DisableReflection  bool   `json:"disable_reflection"`   // 关闭运维端口的 gRPC reflection
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `json:"host"`     // 数据库地址
	Port     int    `json:"port"`     // 数据库端口
	User     string `json:"user"`     // 用户名
	Password string `json:"password"` // 密码
	Database string `json:"database"` // 数据库名
	MaxIdle  int    `json:"max_idle"` // 最大空闲连接
	MaxOpen  int    `json:"max_open"` // 最大打开连接
}

// ConsulConfig Consul配置
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// JaegerConfig Jaeger配置
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// AuthConfig 会话与令牌配置
type AuthConfig struct {
	JWTSecret     string `json:"jwt_secret"`     // HS256 签名密钥
	Issuer        string `json:"issuer"`         // JWT iss
	Audience      string `json:"audience"`       // JWT aud
	SessionSecret string `json:"session_secret"` // Cookie session 签名密钥
	SessionMaxAge int    `json:"session_max_age"` // 秒；<=0 使用默认 7 天
}

// RentalConfig 租车业务配置
type RentalConfig struct {
	// AdminRegistrationKey 注册时提交该值可获得管理员身份。
	// 空值表示关闭该通道。这是一个已知偏弱的引导机制，保留但不再写死在代码里。
	AdminRegistrationKey string `json:"admin_registration_key"`
}

// LogConfig 日志配置
type LogConfig struct {
	Driver string `json:"driver"` // logrus, zap
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // 日志文件路径
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig 加载配置
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = &Config{}
		// 如果配置文件不存在，使用默认配置
		if _, err = os.Stat(configPath); os.IsNotExist(err) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			err = nil
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
	})

	if err != nil {
		return nil, err
	}

	return globalConfig, nil
}

// defaultConfig 默认配置（开发环境）
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:               "rental-service",
			Host:               "0.0.0.0",
			HTTPPort:           8080,
			GRPCPort:           50051,
			ShutdownTimeoutSec: 5,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "easywheels",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Auth: AuthConfig{
			JWTSecret:     "dev-only-secret",
			Issuer:        "easywheels",
			Audience:      "easywheels",
			SessionSecret: "dev-only-session-secret",
		},
		Rental: RentalConfig{
			AdminRegistrationKey: "",
		},
		Log: LogConfig{
			Driver: "logrus",
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
