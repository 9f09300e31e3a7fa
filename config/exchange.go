package config

import (
	"errors"
	"time"
)

// ExchangeConfig 交换服务配置
//
// 配置请求/应答交换服务的运行参数：
//   - 事件队列容量
//   - 超时扫描间隔
//   - 停止宽限期
type ExchangeConfig struct {
	// EventQueueSize 事件队列容量
	//
	// 服务产生的事件先进入有界队列，应用从 Events() 读取。
	// 队列满时发射阻塞，形成背压。
	EventQueueSize int

	// ExpiryTick 超时扫描间隔
	//
	// 待决请求按此间隔检查截止时间，到期请求以超时结算。
	ExpiryTick Duration

	// ShutdownTimeout 停止宽限期
	//
	// Stop 等待在途处理结束的最长时间，超过后强制退出。
	ShutdownTimeout Duration
}

// DefaultExchangeConfig 返回默认交换配置
func DefaultExchangeConfig() ExchangeConfig {
	return ExchangeConfig{
		// ════════════════════════════════════════════════════════════════════
		// 交换服务配置
		// ════════════════════════════════════════════════════════════════════
		EventQueueSize:  64,                          // 事件队列容量：64 条
		ExpiryTick:      Duration(200 * time.Millisecond), // 超时扫描间隔：200 毫秒
		ShutdownTimeout: Duration(5 * time.Second),   // 停止宽限期：5 秒
	}
}

// Validate 验证交换配置
func (c *ExchangeConfig) Validate() error {
	if c.EventQueueSize <= 0 {
		return errors.New("exchange: event queue size must be positive")
	}
	if c.ExpiryTick <= 0 {
		return errors.New("exchange: expiry tick must be positive")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("exchange: shutdown timeout must not be negative")
	}
	return nil
}

// WithEventQueueSize 设置事件队列容量
func (c ExchangeConfig) WithEventQueueSize(size int) ExchangeConfig {
	c.EventQueueSize = size
	return c
}

// WithExpiryTick 设置超时扫描间隔
func (c ExchangeConfig) WithExpiryTick(tick time.Duration) ExchangeConfig {
	c.ExpiryTick = Duration(tick)
	return c
}
