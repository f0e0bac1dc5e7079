// Package config 负责客户端配置加载：yaml 文件 + .env 环境变量覆盖。
// 密钥材料只从环境变量读取，不写进配置文件。
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MarketConfig 市场精度配置
type MarketConfig struct {
	MarketID      uint32 `yaml:"market_id"`
	Symbol        string `yaml:"symbol"`
	PriceDecimals int32  `yaml:"price_decimals"`
	SizeDecimals  int32  `yaml:"size_decimals"`
}

// TokenConfig 代币精度配置
type TokenConfig struct {
	TokenID  uint32 `yaml:"token_id"`
	Symbol   string `yaml:"symbol"`
	Decimals int32  `yaml:"decimals"`
}

// RateLimitConfig 客户端侧提交限速配置（0 表示关闭）
type RateLimitConfig struct {
	Capacity   int `yaml:"capacity"`
	RefillRate int `yaml:"refill_rate"`
}

// Config 应用配置
type Config struct {
	Endpoint   string          `yaml:"endpoint"`    // 服务地址，如 https://api.example.com 或 wss://...
	Transport  string          `yaml:"transport"`   // http / ws，默认 http
	ActionPath string          `yaml:"action_path"` // HTTP 动作端点路径，默认 /action
	LogLevel   string          `yaml:"log_level"`
	LogFile    string          `yaml:"log_file"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	Markets    []MarketConfig  `yaml:"markets"`
	Tokens     []TokenConfig   `yaml:"tokens"`

	// 以下仅从环境变量读取
	WalletPrivateKey string `yaml:"-"` // GOPERP_WALLET_KEY（hex）
	SessionSeed      string `yaml:"-"` // GOPERP_SESSION_SEED（hex，32 字节种子）
}

// Load 加载配置：先读 yaml，再用环境变量覆盖。
// .env 文件存在时通过 godotenv 载入（不覆盖已设置的环境变量）。
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Transport:  "http",
		ActionPath: "/action",
		LogLevel:   "info",
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if v := getenv("GOPERP_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := getenv("GOPERP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.WalletPrivateKey = getenv("GOPERP_WALLET_KEY")
	cfg.SessionSeed = getenv("GOPERP_SESSION_SEED")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 基本校验
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("缺少 endpoint 配置")
	}
	switch c.Transport {
	case "http", "ws":
	default:
		return fmt.Errorf("不支持的 transport: %q（支持: http/ws）", c.Transport)
	}
	seen := make(map[uint32]bool, len(c.Markets))
	for _, m := range c.Markets {
		if seen[m.MarketID] {
			return fmt.Errorf("重复的市场号: %d", m.MarketID)
		}
		seen[m.MarketID] = true
		if m.PriceDecimals < 0 || m.SizeDecimals < 0 {
			return fmt.Errorf("市场 %d 精度配置非法", m.MarketID)
		}
	}
	return nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
