package config

import "errors"

// RateLimitConfig 入站限流配置
//
// 对单个节点的入站请求做令牌桶限流，
// 防止单个对端以高频请求挤占本地处理能力。
// 限流独立于协议级并发上限，两者同时生效。
type RateLimitConfig struct {
	// Enabled 是否启用入站限流
	Enabled bool

	// RequestsPerSecond 单节点每秒允许的请求数
	RequestsPerSecond float64

	// Burst 单节点允许的突发请求数
	Burst int

	// MaxPeers 跟踪的节点数上限
	//
	// 超过上限时最久未活动的节点限流器被淘汰。
	MaxPeers int
}

// DefaultRateLimitConfig 返回默认限流配置
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		// ════════════════════════════════════════════════════════════════════
		// 入站限流配置
		// ════════════════════════════════════════════════════════════════════
		Enabled:           false, // 限流：默认禁用，按需开启
		RequestsPerSecond: 100,   // 单节点速率：100 请求/秒
		Burst:             50,    // 突发容量：50 个请求
		MaxPeers:          1024,  // 跟踪节点上限：1024 个
	}
}

// Validate 验证限流配置
func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("rate limit: requests per second must be positive")
	}
	if c.Burst <= 0 {
		return errors.New("rate limit: burst must be positive")
	}
	if c.MaxPeers <= 0 {
		return errors.New("rate limit: max peers must be positive")
	}
	return nil
}
