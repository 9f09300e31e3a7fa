package metrics

import (
	"github.com/dep2p/go-reqres/pkg/types"
)

// Reporter 提供记录和检索交换指标的方法
//
// 交换服务在请求生命周期的各个节点调用记录方法，
// 查询方法返回按协议或按节点聚合的快照。
type Reporter interface {
	// RecordRequestSent 记录出站请求提交
	RecordRequestSent(proto types.ProtocolID, peer types.PeerID, size int64)

	// RecordRequestSucceeded 记录出站请求成功结算（size 为应答负载大小）
	RecordRequestSucceeded(proto types.ProtocolID, peer types.PeerID, size int64)

	// RecordRequestFailed 记录出站请求失败结算
	RecordRequestFailed(proto types.ProtocolID, peer types.PeerID)

	// RecordRequestReceived 记录入站请求投递
	RecordRequestReceived(proto types.ProtocolID, peer types.PeerID, size int64)

	// RecordResponseSent 记录应答写回成功
	RecordResponseSent(proto types.ProtocolID, peer types.PeerID, size int64)

	// RecordInboundRejected 记录入站流拒绝（并发超限或负载超限）
	RecordInboundRejected(proto types.ProtocolID, peer types.PeerID)

	// StatsForProtocol 获取单协议统计
	StatsForProtocol(proto types.ProtocolID) types.ProtocolStats

	// StatsByProtocol 获取所有协议统计
	StatsByProtocol() map[types.ProtocolID]types.ProtocolStats

	// BandwidthForPeer 获取节点带宽统计
	BandwidthForPeer(peer types.PeerID) Stats

	// BandwidthTotals 获取总带宽统计
	BandwidthTotals() Stats

	// Reset 重置所有统计
	Reset()
}

// 确保 ExchangeCollector 实现 Reporter 接口
var _ Reporter = (*ExchangeCollector)(nil)

// ============================================================================
// Nop 实现
// ============================================================================

// Nop 空指标实现
//
// 指标收集禁用时使用，所有记录方法为空操作，查询方法返回零值。
type Nop struct{}

var _ Reporter = Nop{}

func (Nop) RecordRequestSent(types.ProtocolID, types.PeerID, int64)      {}
func (Nop) RecordRequestSucceeded(types.ProtocolID, types.PeerID, int64) {}
func (Nop) RecordRequestFailed(types.ProtocolID, types.PeerID)           {}
func (Nop) RecordRequestReceived(types.ProtocolID, types.PeerID, int64)  {}
func (Nop) RecordResponseSent(types.ProtocolID, types.PeerID, int64)     {}
func (Nop) RecordInboundRejected(types.ProtocolID, types.PeerID)         {}

func (Nop) StatsForProtocol(types.ProtocolID) types.ProtocolStats {
	return types.ProtocolStats{}
}

func (Nop) StatsByProtocol() map[types.ProtocolID]types.ProtocolStats {
	return map[types.ProtocolID]types.ProtocolStats{}
}

func (Nop) BandwidthForPeer(types.PeerID) Stats { return Stats{} }
func (Nop) BandwidthTotals() Stats              { return Stats{} }
func (Nop) Reset()                              {}
