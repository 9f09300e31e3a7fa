package config

import (
	"errors"
	"time"
)

// DialConfig 拨号配置
//
// 配置出站请求触发的拨号行为。
// 拨号策略（拨号或立即失败）由每次请求的选项决定，
// 这里只配置拨号本身的参数。
type DialConfig struct {
	// Timeout 单次拨号超时
	Timeout Duration

	// MaxConcurrentDials 同时进行的拨号数上限
	//
	// 同一节点的并发请求共享一次拨号，
	// 此限制约束不同节点的并行拨号。
	MaxConcurrentDials int
}

// DefaultDialConfig 返回默认拨号配置
func DefaultDialConfig() DialConfig {
	return DialConfig{
		// ════════════════════════════════════════════════════════════════════
		// 拨号配置
		// ════════════════════════════════════════════════════════════════════
		Timeout:            Duration(10 * time.Second), // 拨号超时：10 秒
		MaxConcurrentDials: 16,                         // 并行拨号上限：16 个
	}
}

// Validate 验证拨号配置
func (c *DialConfig) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("dial: timeout must be positive")
	}
	if c.MaxConcurrentDials <= 0 {
		return errors.New("dial: max concurrent dials must be positive")
	}
	return nil
}

// WithTimeout 设置拨号超时
func (c DialConfig) WithTimeout(timeout time.Duration) DialConfig {
	c.Timeout = Duration(timeout)
	return c
}
