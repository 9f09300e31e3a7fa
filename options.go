package reqres

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-reqres/config"
	"github.com/dep2p/go-reqres/internal/core/metrics"
	exchange "github.com/dep2p/go-reqres/internal/protocol/reqres"
)

// Option 服务配置选项
type Option = exchange.Option

// WithEventQueueSize 设置事件队列容量
//
// 队列满时入站事件发布会阻塞在限速的读取方上，
// 高吞吐场景应适当调大。
func WithEventQueueSize(size int) Option {
	return exchange.WithEventQueueSize(size)
}

// WithExpiryTick 设置超时扫描间隔
//
// 间隔越小超时结算越及时，代价是更频繁的扫描。
func WithExpiryTick(tick time.Duration) Option {
	return exchange.WithExpiryTick(tick)
}

// WithDialTimeout 设置拨号超时
func WithDialTimeout(timeout time.Duration) Option {
	return exchange.WithDialTimeout(timeout)
}

// WithMaxConcurrentDials 设置并发拨号上限
func WithMaxConcurrentDials(n int) Option {
	return exchange.WithMaxConcurrentDials(n)
}

// WithShutdownTimeout 设置停止时等待在途交换的最长时间
func WithShutdownTimeout(timeout time.Duration) Option {
	return exchange.WithShutdownTimeout(timeout)
}

// WithRateLimit 设置入站限流
func WithRateLimit(cfg RateLimiterConfig) Option {
	return exchange.WithRateLimit(cfg)
}

// WithClock 注入时钟（测试用）
func WithClock(clk clock.Clock) Option {
	return exchange.WithClock(clk)
}

// WithReporter 注入指标报告器
func WithReporter(r metrics.Reporter) Option {
	return exchange.WithReporter(r)
}

// FromUnified 从统一配置应用服务级参数
func FromUnified(cfg *config.Config) Option {
	return exchange.FromUnified(cfg)
}
