package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 默认模型：文生图走 Imagen，图生图走 Gemini 图像模型
const (
	DefaultGenModelName  = "imagen-4.0-generate-001"
	DefaultEditModelName = "gemini-2.5-flash-image"
)

// Config 应用配置结构
type Config struct {
	// GenAI 配置（文生图与图生图共用同一套 BaseURL / APIKey）
	GenAIBaseURL string
	GenAIAPIKey  string
	// 分别用于图片生成与图片编辑的模型名称
	GenAIGenModelName  string
	GenAIEditModelName string
	// 图片输出格式: base64 或 url（url 时结果会上传到 OSS）
	GenAIImageFormat string
	// GenAI 请求超时时间（秒），0 表示不设置超时
	GenAITimeoutSeconds int
	// 每分钟最多调用 GenAI 的次数，0 表示不限流
	GenAIRateLimitPerMinute int

	ServerAddress string
	ServerPort    string
	// 是否同时通过 HTTP 暴露 MCP（streamable http）
	MCPHTTPEnabled bool
	// HTTP 模式下 MCP tool 是否可以让服务端下载 http(s) 图片
	MCPHTTPAllowURLSources bool

	// 会话空闲过期时间（分钟）
	SessionTTLMinutes int
	// 默认界面语言: en 或 ar
	DefaultLanguage string

	// OSS 配置
	OSSEndpoint  string
	OSSRegion    string
	OSSAccessKey string
	OSSSecretKey string
	OSSBucket    string

	// 大于 0 时返回带签名的临时地址（秒），否则返回公开地址
	OSSSignedURLExpireSeconds int

	// 日志配置
	LogLevel  string // 日志级别: debug, info, warn, error
	LogFormat string // 日志格式: json, text
	LogOutput string // 输出位置: stdout, stderr, file
	LogFile   string // 日志文件路径（当 LogOutput 为 file 时）
}

// LoadConfig 从 .env 文件和环境变量加载配置，并初始化日志系统
func LoadConfig() (*Config, error) {
	// 加载 .env 文件（如果存在）
	if err := godotenv.Load(); err != nil {
		// stdout 在 stdio 模式下是 MCP 通道，这里只能写 stderr
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	config := &Config{
		GenAIBaseURL:            getEnv("GENAI_BASE_URL", ""),
		GenAIAPIKey:             getEnv("GEMINI_API_KEY", getEnv("GENAI_API_KEY", "")),
		GenAIGenModelName:       getEnv("GENAI_GEN_MODEL_NAME", DefaultGenModelName),
		GenAIEditModelName:      getEnv("GENAI_EDIT_MODEL_NAME", DefaultEditModelName),
		GenAIImageFormat:        getEnv("GENAI_IMAGE_FORMAT", "base64"),
		GenAITimeoutSeconds:     getEnvInt("GENAI_TIMEOUT_SECONDS", 0),
		GenAIRateLimitPerMinute: getEnvInt("GENAI_RATE_LIMIT_PER_MINUTE", 0),
		ServerAddress:           getEnv("SERVER_ADDRESS", "0.0.0.0"),
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		MCPHTTPEnabled:          getEnvBool("MCP_HTTP_ENABLED", false),
		MCPHTTPAllowURLSources:  getEnvBool("MCP_HTTP_ALLOW_URL_SOURCES", false),
		SessionTTLMinutes:       getEnvInt("SESSION_TTL_MINUTES", 30),
		DefaultLanguage:         getEnv("DEFAULT_LANGUAGE", "en"),
		// OSS 配置
		OSSEndpoint:  getEnv("OSS_ENDPOINT", ""),
		OSSRegion:    getEnv("OSS_REGION", "us-east-1"),
		OSSAccessKey: getEnv("OSS_ACCESS_KEY", ""),
		OSSSecretKey: getEnv("OSS_SECRET_KEY", ""),
		OSSBucket:    getEnv("OSS_BUCKET", ""),

		OSSSignedURLExpireSeconds: getEnvInt("OSS_SIGNED_URL_EXPIRE_SECONDS", 0),
		// 日志配置
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogOutput: getEnv("LOG_OUTPUT", "stderr"),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 初始化日志系统
	logConfig := &LogConfig{
		Level:    config.LogLevel,
		Format:   config.LogFormat,
		Output:   config.LogOutput,
		FilePath: config.LogFile,
	}
	if err := InitLogger(logConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return config, nil
}

// Validate 校验必需的配置
func (c *Config) Validate() error {
	if c.GenAIAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY (or GENAI_API_KEY) is required")
	}

	switch strings.ToLower(c.GenAIImageFormat) {
	case "base64":
	case "url":
		if c.OSSBucket == "" {
			return fmt.Errorf("OSS_BUCKET is required when GENAI_IMAGE_FORMAT=url")
		}
	default:
		return fmt.Errorf("unsupported GENAI_IMAGE_FORMAT: %s", c.GenAIImageFormat)
	}

	if c.GenAITimeoutSeconds < 0 {
		return fmt.Errorf("GENAI_TIMEOUT_SECONDS must not be negative: %d", c.GenAITimeoutSeconds)
	}
	if c.GenAIRateLimitPerMinute < 0 {
		return fmt.Errorf("GENAI_RATE_LIMIT_PER_MINUTE must not be negative: %d", c.GenAIRateLimitPerMinute)
	}
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive: %d", c.SessionTTLMinutes)
	}
	return nil
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes" || value == "on"
}

// getEnvInt 获取整型环境变量
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	return defaultValue
}

// GetServerAddr 返回完整的服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.ServerAddress, c.ServerPort)
}

// UploadEnabled 结果是否需要上传到 OSS
func (c *Config) UploadEnabled() bool {
	return strings.EqualFold(c.GenAIImageFormat, "url")
}

// GenAITimeout 返回单次 GenAI 调用的超时时间，0 表示不限制
func (c *Config) GenAITimeout() time.Duration {
	return time.Duration(c.GenAITimeoutSeconds) * time.Second
}

// OSSSignedURLExpire 签名地址有效期，0 表示使用公开地址
func (c *Config) OSSSignedURLExpire() time.Duration {
	return time.Duration(c.OSSSignedURLExpireSeconds) * time.Second
}

// SessionTTL 返回会话空闲过期时间
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
