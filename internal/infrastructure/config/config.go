package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	AI          AIConfig         `mapstructure:"ai"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Image       ImageConfig      `mapstructure:"image"`
	OCR         OCRConfig        `mapstructure:"ocr"`
	Conversion  ConversionConfig `mapstructure:"conversion"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
	LogDir      string           `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AIConfig AI 解析器配置
type AIConfig struct {
	// ParserEnabled 允許請求以 AI 解析食譜文字，失敗時退回本地解析
	ParserEnabled bool `mapstructure:"parser_enabled"`
	// MinInterval 兩次 AI 呼叫的最小間隔，0 表示不限制
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// 快取後端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// QueueConfig 文字擷取工作隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	// MaxDimension 送 OCR 前的最長邊像素，0 表示不縮放
	MaxDimension int `mapstructure:"max_dimension"`
}

// OCRConfig 文字擷取配置
type OCRConfig struct {
	Provider string `mapstructure:"provider"`
	Language string `mapstructure:"language"`
}

// OCR 提供者
const (
	OCRProviderNone      = "none"
	OCRProviderTesseract = "tesseract"
	OCRProviderVision    = "vision"
)

// ConversionConfig 轉換引擎預設值
type ConversionConfig struct {
	StarterHydration      float64 `mapstructure:"starter_hydration"`
	StrictUnits           bool    `mapstructure:"strict_units"`
	AppendMissingLiquid   bool    `mapstructure:"append_missing_liquid"`
	StarterHydrationAware bool    `mapstructure:"starter_hydration_aware"`
	EnforceLevainTotals   bool    `mapstructure:"enforce_levain_totals"`
	FoldStarterFlour      bool    `mapstructure:"fold_starter_flour"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時直接使用環境變數）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"openrouter.api_key":                 "OPENROUTER_API_KEY",
		"openrouter.model":                   "OPENROUTER_MODEL",
		"openrouter.max_tokens":              "MODEL_MAX_TOKENS",
		"cache.enabled":                      "CACHE_ENABLED",
		"cache.backend":                      "CACHE_BACKEND",
		"cache.redis_addr":                   "REDIS_ADDR",
		"cache.redis_password":               "REDIS_PASSWORD",
		"rate_limit.enabled":                 "RATE_LIMIT_ENABLED",
		"rate_limit.requests":                "RATE_LIMIT_REQUESTS",
		"rate_limit.window":                  "RATE_LIMIT_WINDOW",
		"ocr.provider":                       "OCR_PROVIDER",
		"conversion.starter_hydration":       "STARTER_HYDRATION",
		"conversion.strict_units":            "STRICT_UNITS",
		"conversion.enforce_levain_totals":   "ENFORCE_LEVAIN_TOTALS",
		"conversion.fold_starter_flour":      "FOLD_STARTER_FLOUR",
		"conversion.append_missing_liquid":   "APPEND_MISSING_LIQUID",
		"conversion.starter_hydration_aware": "STARTER_HYDRATION_AWARE",
		"dedup_window":                       "DEDUP_WINDOW",
		"log_level":                          "LOG_LEVEL",
		"log_dir":                            "LOG_DIR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// OpenRouter 有金鑰時才視為啟用
	if config.OpenRouter.APIKey == "" {
		config.OpenRouter.Enabled = false
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default 只含預設值的設定（CLI 與測試使用）
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// 預設值皆為合法型別，Unmarshal 不會失敗
	_ = v.Unmarshal(&config)
	config.OpenRouter.Enabled = false
	return &config
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "bread-converter")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.max_body_bytes", 12<<20)

	// OpenRouter 設定
	v.SetDefault("openrouter.enabled", true)
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "qwen/qwen2.5-vl-72b-instruct:free")
	v.SetDefault("openrouter.max_tokens", 2000)
	v.SetDefault("openrouter.timeout", "60s")

	// AI 設定
	v.SetDefault("ai.parser_enabled", true)
	v.SetDefault("ai.min_interval", "0s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)

	// 隊列設定
	v.SetDefault("queue.workers", 2)
	v.SetDefault("queue.max_size", 20)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
	v.SetDefault("image.max_dimension", 2000)

	// OCR 設定
	v.SetDefault("ocr.provider", OCRProviderNone)
	v.SetDefault("ocr.language", "eng")

	// 轉換設定
	v.SetDefault("conversion.starter_hydration", 100)
	v.SetDefault("conversion.strict_units", false)
	v.SetDefault("conversion.append_missing_liquid", false)
	v.SetDefault("conversion.starter_hydration_aware", false)
	v.SetDefault("conversion.enforce_levain_totals", false)
	v.SetDefault("conversion.fold_starter_flour", false)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case CacheBackendMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheBackendRedis:
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required for the redis cache backend")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	// 驗證限流設定
	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	// 驗證 OCR 設定
	switch config.OCR.Provider {
	case OCRProviderNone, OCRProviderTesseract:
	case OCRProviderVision:
		if !config.OpenRouter.Enabled {
			return fmt.Errorf("vision OCR requires an OpenRouter API key")
		}
	default:
		return fmt.Errorf("unknown OCR provider %q", config.OCR.Provider)
	}

	// 驗證轉換設定
	if config.Conversion.StarterHydration <= 0 || config.Conversion.StarterHydration > 500 {
		return fmt.Errorf("starter hydration must be in (0, 500]")
	}

	return nil
}
