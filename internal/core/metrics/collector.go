package metrics

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-reqres/pkg/types"
)

// DefaultPeerCacheSize 默认节点带宽缓存容量
const DefaultPeerCacheSize = 1024

// ExchangeCollector 交换指标收集器
//
// ExchangeCollector 跟踪本地节点发出和处理的请求/应答。
// 计数使用原子操作实现并发安全；协议数量由注册表约束，
// 节点数量无上界，因此节点级统计放在 LRU 缓存中限制基数。
type ExchangeCollector struct {
	// 全局计数器（使用 atomic）
	requestsSent      atomic.Uint64
	requestsSucceeded atomic.Uint64
	requestsFailed    atomic.Uint64
	bytesSent         atomic.Int64
	bytesRecv         atomic.Int64

	// 协议级计数器
	protocolMu sync.RWMutex
	protocols  map[types.ProtocolID]*protocolCounters

	// 节点级带宽计数器（LRU 限制基数）
	peers *lru.Cache[types.PeerID, *peerCounters]

	// 速率计算器
	sendRate *RateMeter
	recvRate *RateMeter
}

// protocolCounters 单协议计数器
type protocolCounters struct {
	requestsSent      atomic.Uint64
	requestsSucceeded atomic.Uint64
	requestsFailed    atomic.Uint64
	requestsReceived  atomic.Uint64
	responsesSent     atomic.Uint64
	inboundRejected   atomic.Uint64
	bytesSent         atomic.Uint64
	bytesRecv         atomic.Uint64
}

// peerCounters 单节点带宽计数器
type peerCounters struct {
	bytesSent atomic.Int64
	bytesRecv atomic.Int64
}

// NewExchangeCollector 创建交换指标收集器
//
// peerCacheSize 为节点带宽缓存容量，非正值时使用 DefaultPeerCacheSize。
func NewExchangeCollector(peerCacheSize int) *ExchangeCollector {
	if peerCacheSize <= 0 {
		peerCacheSize = DefaultPeerCacheSize
	}

	// 容量为正时 lru.New 不会失败
	peers, _ := lru.New[types.PeerID, *peerCounters](peerCacheSize)

	return &ExchangeCollector{
		protocols: make(map[types.ProtocolID]*protocolCounters),
		peers:     peers,
		sendRate:  NewRateMeter(),
		recvRate:  NewRateMeter(),
	}
}

// ============================================================================
// 记录方法
// ============================================================================

// RecordRequestSent 记录出站请求提交
func (c *ExchangeCollector) RecordRequestSent(proto types.ProtocolID, peer types.PeerID, size int64) {
	c.requestsSent.Add(1)
	c.logSent(peer, size)

	pc := c.forProtocol(proto)
	pc.requestsSent.Add(1)
	pc.bytesSent.Add(uint64(size))
}

// RecordRequestSucceeded 记录出站请求成功结算
func (c *ExchangeCollector) RecordRequestSucceeded(proto types.ProtocolID, peer types.PeerID, size int64) {
	c.requestsSucceeded.Add(1)
	c.logRecv(peer, size)

	pc := c.forProtocol(proto)
	pc.requestsSucceeded.Add(1)
	pc.bytesRecv.Add(uint64(size))
}

// RecordRequestFailed 记录出站请求失败结算
func (c *ExchangeCollector) RecordRequestFailed(proto types.ProtocolID, _ types.PeerID) {
	c.requestsFailed.Add(1)
	c.forProtocol(proto).requestsFailed.Add(1)
}

// RecordRequestReceived 记录入站请求投递
func (c *ExchangeCollector) RecordRequestReceived(proto types.ProtocolID, peer types.PeerID, size int64) {
	c.logRecv(peer, size)

	pc := c.forProtocol(proto)
	pc.requestsReceived.Add(1)
	pc.bytesRecv.Add(uint64(size))
}

// RecordResponseSent 记录应答写回成功
func (c *ExchangeCollector) RecordResponseSent(proto types.ProtocolID, peer types.PeerID, size int64) {
	c.logSent(peer, size)

	pc := c.forProtocol(proto)
	pc.responsesSent.Add(1)
	pc.bytesSent.Add(uint64(size))
}

// RecordInboundRejected 记录入站流拒绝
func (c *ExchangeCollector) RecordInboundRejected(proto types.ProtocolID, _ types.PeerID) {
	c.forProtocol(proto).inboundRejected.Add(1)
}

// ============================================================================
// 查询方法
// ============================================================================

// StatsForProtocol 返回单协议统计快照
func (c *ExchangeCollector) StatsForProtocol(proto types.ProtocolID) types.ProtocolStats {
	c.protocolMu.RLock()
	pc := c.protocols[proto]
	c.protocolMu.RUnlock()

	if pc == nil {
		return types.ProtocolStats{}
	}
	return pc.snapshot()
}

// StatsByProtocol 返回所有协议统计快照
func (c *ExchangeCollector) StatsByProtocol() map[types.ProtocolID]types.ProtocolStats {
	c.protocolMu.RLock()
	defer c.protocolMu.RUnlock()

	result := make(map[types.ProtocolID]types.ProtocolStats, len(c.protocols))
	for proto, pc := range c.protocols {
		result[proto] = pc.snapshot()
	}
	return result
}

// BandwidthForPeer 返回节点带宽统计
//
// 节点不在缓存中（从未通信或已被淘汰）时返回零值。
func (c *ExchangeCollector) BandwidthForPeer(peer types.PeerID) Stats {
	pc, ok := c.peers.Get(peer)
	if !ok {
		return Stats{}
	}

	return Stats{
		TotalIn:  pc.bytesRecv.Load(),
		TotalOut: pc.bytesSent.Load(),
	}
}

// BandwidthTotals 返回总带宽统计
func (c *ExchangeCollector) BandwidthTotals() Stats {
	return Stats{
		TotalIn:  c.bytesRecv.Load(),
		TotalOut: c.bytesSent.Load(),
		RateIn:   c.recvRate.Rate(),
		RateOut:  c.sendRate.Rate(),
	}
}

// Totals 返回全局请求计数（已提交/已成功/已失败）
func (c *ExchangeCollector) Totals() (sent, succeeded, failed uint64) {
	return c.requestsSent.Load(), c.requestsSucceeded.Load(), c.requestsFailed.Load()
}

// Reset 清除所有统计
func (c *ExchangeCollector) Reset() {
	c.requestsSent.Store(0)
	c.requestsSucceeded.Store(0)
	c.requestsFailed.Store(0)
	c.bytesSent.Store(0)
	c.bytesRecv.Store(0)

	c.protocolMu.Lock()
	c.protocols = make(map[types.ProtocolID]*protocolCounters)
	c.protocolMu.Unlock()

	c.peers.Purge()

	c.sendRate.Reset()
	c.recvRate.Reset()
}

// ============================================================================
// 内部方法
// ============================================================================

// forProtocol 获取协议计数器，不存在时创建
func (c *ExchangeCollector) forProtocol(proto types.ProtocolID) *protocolCounters {
	c.protocolMu.RLock()
	pc, ok := c.protocols[proto]
	c.protocolMu.RUnlock()
	if ok {
		return pc
	}

	c.protocolMu.Lock()
	defer c.protocolMu.Unlock()

	if pc, ok = c.protocols[proto]; ok {
		return pc
	}
	pc = &protocolCounters{}
	c.protocols[proto] = pc
	return pc
}

// forPeer 获取节点计数器，不存在时创建
func (c *ExchangeCollector) forPeer(peer types.PeerID) *peerCounters {
	if pc, ok := c.peers.Get(peer); ok {
		return pc
	}

	pc := &peerCounters{}
	if existing, ok, _ := c.peers.PeekOrAdd(peer, pc); ok {
		return existing
	}
	return pc
}

// logSent 记录出站字节
func (c *ExchangeCollector) logSent(peer types.PeerID, size int64) {
	c.bytesSent.Add(size)
	c.sendRate.Add(size)
	c.forPeer(peer).bytesSent.Add(size)
}

// logRecv 记录入站字节
func (c *ExchangeCollector) logRecv(peer types.PeerID, size int64) {
	c.bytesRecv.Add(size)
	c.recvRate.Add(size)
	c.forPeer(peer).bytesRecv.Add(size)
}

// snapshot 返回协议计数器快照
func (pc *protocolCounters) snapshot() types.ProtocolStats {
	return types.ProtocolStats{
		RequestsSent:      pc.requestsSent.Load(),
		RequestsSucceeded: pc.requestsSucceeded.Load(),
		RequestsFailed:    pc.requestsFailed.Load(),
		RequestsReceived:  pc.requestsReceived.Load(),
		ResponsesSent:     pc.responsesSent.Load(),
		InboundRejected:   pc.inboundRejected.Load(),
		BytesSent:         pc.bytesSent.Load(),
		BytesRecv:         pc.bytesRecv.Load(),
	}
}
