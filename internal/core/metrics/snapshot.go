package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/dep2p/go-reqres/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// ExchangeSnapshot 交换指标快照
//
// 周期性收集并输出交换服务状态快照，便于日志分析和监控。
type ExchangeSnapshot struct {
	// 时间信息
	Timestamp     time.Time     `json:"timestamp"`
	UptimeSeconds int64         `json:"uptimeSeconds"`
	Interval      time.Duration `json:"interval"`

	// 请求统计
	RequestsSent      uint64  `json:"requestsSent"`
	RequestsSucceeded uint64  `json:"requestsSucceeded"`
	RequestsFailed    uint64  `json:"requestsFailed"`
	RequestsPerMin    float64 `json:"requestsPerMin"`

	// 在途统计
	ActiveOutbound int `json:"activeOutbound"`
	ActiveInbound  int `json:"activeInbound"`

	// 带宽统计
	BytesSent   int64   `json:"bytesSent"`
	BytesRecv   int64   `json:"bytesRecv"`
	SendRateBps float64 `json:"sendRateBps"`
	RecvRateBps float64 `json:"recvRateBps"`

	// 协议分布
	Protocols int `json:"protocols"`

	// 资源统计
	Goroutines  int     `json:"goroutines"`
	HeapAllocMB float64 `json:"heapAllocMB"`
	HeapSysMB   float64 `json:"heapSysMB"`
}

// InflightSource 在途请求数据源
//
// 交换服务实现此接口，快照收集器通过它读取当前在途数。
type InflightSource interface {
	// ActiveOutbound 当前在途的出站请求数
	ActiveOutbound() int
	// ActiveInbound 当前未应答的入站请求数
	ActiveInbound() int
}

// SnapshotCollector 快照收集器
type SnapshotCollector struct {
	mu sync.RWMutex

	// 启动时间
	startTime time.Time

	// 数据源
	collector *ExchangeCollector

	// 可选数据源（通过 setter 注入）
	inflight InflightSource

	// 上次快照时的值（用于计算速率）
	lastSnapshot     *ExchangeSnapshot
	lastSent         uint64
	lastSnapshotTime time.Time

	// 控制
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSnapshotCollector 创建快照收集器
func NewSnapshotCollector(collector *ExchangeCollector) *SnapshotCollector {
	return &SnapshotCollector{
		startTime: time.Now(),
		collector: collector,
	}
}

// SetInflightSource 设置在途请求数据源
func (c *SnapshotCollector) SetInflightSource(src InflightSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = src
}

// Start 启动周期性快照
func (c *SnapshotCollector) Start(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return // 已经启动
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.lastSnapshotTime = time.Now()
	c.mu.Unlock()

	c.wg.Add(1)
	go c.snapshotLoop(interval)

	logger.Info("交换指标快照收集器已启动", "interval", interval)
}

// Stop 停止快照收集
func (c *SnapshotCollector) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
	logger.Info("交换指标快照收集器已停止")
}

// snapshotLoop 快照循环
func (c *SnapshotCollector) snapshotLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			snapshot := c.Collect()
			c.logSnapshot(snapshot)
		}
	}
}

// Collect 收集当前快照
func (c *SnapshotCollector) Collect() *ExchangeSnapshot {
	now := time.Now()

	c.mu.RLock()
	lastTime := c.lastSnapshotTime
	lastSent := c.lastSent
	inflight := c.inflight
	c.mu.RUnlock()

	// 计算时间间隔
	elapsed := now.Sub(lastTime)
	elapsedMinutes := elapsed.Minutes()
	if elapsedMinutes <= 0 {
		elapsedMinutes = 1.0 / 60.0 // 最小 1 秒
	}

	// 请求统计
	var sent, succeeded, failed uint64
	var bytesSent, bytesRecv int64
	var sendRate, recvRate float64
	var protocols int
	if c.collector != nil {
		sent, succeeded, failed = c.collector.Totals()

		bw := c.collector.BandwidthTotals()
		bytesSent = bw.TotalOut
		bytesRecv = bw.TotalIn
		sendRate = bw.RateOut
		recvRate = bw.RateIn

		protocols = len(c.collector.StatsByProtocol())
	}
	requestsPerMin := float64(sent-lastSent) / elapsedMinutes

	// 在途统计
	var activeOut, activeIn int
	if inflight != nil {
		activeOut = inflight.ActiveOutbound()
		activeIn = inflight.ActiveInbound()
	}

	// 资源统计
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := &ExchangeSnapshot{
		Timestamp:     now,
		UptimeSeconds: int64(now.Sub(c.startTime).Seconds()),
		Interval:      elapsed,

		RequestsSent:      sent,
		RequestsSucceeded: succeeded,
		RequestsFailed:    failed,
		RequestsPerMin:    requestsPerMin,

		ActiveOutbound: activeOut,
		ActiveInbound:  activeIn,

		BytesSent:   bytesSent,
		BytesRecv:   bytesRecv,
		SendRateBps: sendRate,
		RecvRateBps: recvRate,

		Protocols: protocols,

		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(memStats.HeapAlloc) / 1024 / 1024,
		HeapSysMB:   float64(memStats.HeapSys) / 1024 / 1024,
	}

	// 更新上次快照值
	c.mu.Lock()
	c.lastSnapshot = snapshot
	c.lastSnapshotTime = now
	c.lastSent = sent
	c.mu.Unlock()

	return snapshot
}

// logSnapshot 输出快照日志
func (c *SnapshotCollector) logSnapshot(s *ExchangeSnapshot) {
	logger.Info("交换指标快照",
		// 时间
		"uptime", s.UptimeSeconds,
		// 请求
		"requestsSent", s.RequestsSent,
		"requestsSucceeded", s.RequestsSucceeded,
		"requestsFailed", s.RequestsFailed,
		"requestsPerMin", formatFloat(s.RequestsPerMin),
		// 在途
		"activeOutbound", s.ActiveOutbound,
		"activeInbound", s.ActiveInbound,
		// 带宽
		"bytesSent", s.BytesSent,
		"bytesRecv", s.BytesRecv,
		"sendRateBps", formatRate(s.SendRateBps),
		"recvRateBps", formatRate(s.RecvRateBps),
		// 协议
		"protocols", s.Protocols,
		// 资源
		"goroutines", s.Goroutines,
		"heapAllocMB", formatFloat(s.HeapAllocMB),
	)
}

// GetLastSnapshot 获取最新快照
func (c *SnapshotCollector) GetLastSnapshot() *ExchangeSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSnapshot
}

// formatRate 格式化速率
func formatRate(bps float64) string {
	if bps < 1024 {
		return formatFloat(bps) + " B/s"
	} else if bps < 1024*1024 {
		return formatFloat(bps/1024) + " KB/s"
	} else {
		return formatFloat(bps/1024/1024) + " MB/s"
	}
}

// formatFloat 格式化浮点数（保留2位小数）
func formatFloat(f float64) string {
	whole := int64(f)
	frac := int64((f - float64(whole)) * 100)
	if frac < 0 {
		frac = -frac
	}
	if frac < 10 {
		return intToString(whole) + ".0" + intToString(frac)
	}
	return intToString(whole) + "." + intToString(frac)
}

// intToString 整数转字符串（避免 fmt 依赖）
func intToString(n int64) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if negative {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
