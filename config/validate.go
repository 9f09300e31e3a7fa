package config

import (
	"errors"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，提供更明确的语义。
// 它会递归验证所有子配置。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 该函数会：
//  1. 检查配置有效性
//  2. 对于某些可修复的问题，自动应用修复
//  3. 返回修复后的配置或错误
//
// 可修复的问题示例：
//   - 队列容量为非正值 -> 使用默认值
//   - 扫描间隔为非正值 -> 使用默认值
//   - 限流参数为非正值 -> 使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	// 交换：修复队列和扫描间隔
	if c.Exchange.EventQueueSize <= 0 {
		c.Exchange.EventQueueSize = DefaultExchangeConfig().EventQueueSize
	}
	if c.Exchange.ExpiryTick <= 0 {
		c.Exchange.ExpiryTick = DefaultExchangeConfig().ExpiryTick
	}
	if c.Exchange.ShutdownTimeout < 0 {
		c.Exchange.ShutdownTimeout = DefaultExchangeConfig().ShutdownTimeout
	}

	// 拨号：修复超时和并行度
	if c.Dial.Timeout <= 0 {
		c.Dial.Timeout = DefaultDialConfig().Timeout
	}
	if c.Dial.MaxConcurrentDials <= 0 {
		c.Dial.MaxConcurrentDials = DefaultDialConfig().MaxConcurrentDials
	}

	// 限流：启用时修复参数
	if c.RateLimit.Enabled {
		defaults := DefaultRateLimitConfig()
		if c.RateLimit.RequestsPerSecond <= 0 {
			c.RateLimit.RequestsPerSecond = defaults.RequestsPerSecond
		}
		if c.RateLimit.Burst <= 0 {
			c.RateLimit.Burst = defaults.Burst
		}
		if c.RateLimit.MaxPeers <= 0 {
			c.RateLimit.MaxPeers = defaults.MaxPeers
		}
	}

	// 指标：启用时修复缓存容量
	if c.Metrics.Enabled && c.Metrics.PeerCacheSize <= 0 {
		c.Metrics.PeerCacheSize = DefaultMetricsConfig().PeerCacheSize
	}

	// 验证修复后的配置
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
// 生产代码应使用 Validate() 并处理错误。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(err)
	}
}
