package reqres

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-reqres/config"
	"github.com/dep2p/go-reqres/internal/core/metrics"
)

// 默认配置值
const (
	// DefaultEventQueueSize 默认事件队列容量
	DefaultEventQueueSize = 64

	// DefaultExpiryTick 默认超时扫描间隔
	DefaultExpiryTick = 200 * time.Millisecond

	// DefaultDialTimeout 默认拨号超时
	DefaultDialTimeout = 10 * time.Second

	// DefaultMaxConcurrentDials 默认并行拨号上限
	DefaultMaxConcurrentDials = 16

	// DefaultShutdownTimeout 默认停止宽限期
	DefaultShutdownTimeout = 5 * time.Second
)

// Config 交换服务配置
type Config struct {
	// EventQueueSize 事件队列容量
	//
	// 队列满时事件投递阻塞，形成有界背压。
	EventQueueSize int

	// ExpiryTick 超时扫描间隔
	//
	// 在途请求按此间隔与截止时间比对，到期请求以超时结算。
	ExpiryTick time.Duration

	// DialTimeout 单次拨号超时
	DialTimeout time.Duration

	// MaxConcurrentDials 并行拨号数上限
	MaxConcurrentDials int

	// ShutdownTimeout 停止宽限期
	//
	// Stop 等待在途处理收尾的最长时间。
	ShutdownTimeout time.Duration

	// RateLimit 入站限流配置
	RateLimit RateLimiterConfig

	// Clock 时钟源
	//
	// 截止时间计算与超时扫描使用此时钟，测试中可注入模拟时钟。
	Clock clock.Clock

	// Reporter 指标报告器
	Reporter metrics.Reporter
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		EventQueueSize:     DefaultEventQueueSize,
		ExpiryTick:         DefaultExpiryTick,
		DialTimeout:        DefaultDialTimeout,
		MaxConcurrentDials: DefaultMaxConcurrentDials,
		ShutdownTimeout:    DefaultShutdownTimeout,
		RateLimit:          DefaultRateLimiterConfig(),
		Clock:              clock.New(),
		Reporter:           metrics.Nop{},
	}
}

// Option 配置选项函数
type Option func(*Config)

// WithEventQueueSize 设置事件队列容量
func WithEventQueueSize(size int) Option {
	return func(c *Config) {
		c.EventQueueSize = size
	}
}

// WithExpiryTick 设置超时扫描间隔
func WithExpiryTick(tick time.Duration) Option {
	return func(c *Config) {
		c.ExpiryTick = tick
	}
}

// WithDialTimeout 设置拨号超时
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.DialTimeout = timeout
	}
}

// WithMaxConcurrentDials 设置并行拨号上限
func WithMaxConcurrentDials(n int) Option {
	return func(c *Config) {
		c.MaxConcurrentDials = n
	}
}

// WithShutdownTimeout 设置停止宽限期
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.ShutdownTimeout = timeout
	}
}

// WithRateLimit 设置入站限流配置
func WithRateLimit(cfg RateLimiterConfig) Option {
	return func(c *Config) {
		c.RateLimit = cfg
	}
}

// WithClock 设置时钟源
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}

// WithReporter 设置指标报告器
func WithReporter(r metrics.Reporter) Option {
	return func(c *Config) {
		c.Reporter = r
	}
}

// FromUnified 从统一配置创建选项
//
// 桥接 config 包的统一配置到服务配置，
// 指标报告器不在此映射，由调用方单独注入。
func FromUnified(cfg *config.Config) Option {
	return func(c *Config) {
		if cfg == nil {
			return
		}
		c.EventQueueSize = cfg.Exchange.EventQueueSize
		c.ExpiryTick = time.Duration(cfg.Exchange.ExpiryTick)
		c.ShutdownTimeout = time.Duration(cfg.Exchange.ShutdownTimeout)
		c.DialTimeout = time.Duration(cfg.Dial.Timeout)
		c.MaxConcurrentDials = cfg.Dial.MaxConcurrentDials
		c.RateLimit = RateLimiterConfig{
			Enabled:           cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			MaxPeers:          cfg.RateLimit.MaxPeers,
		}
	}
}
