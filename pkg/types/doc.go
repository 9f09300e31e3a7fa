// Package types 定义 go-reqres 的公共数据结构
//
// 这是整个模块的最底层包，不依赖任何其他 go-reqres 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
// 基础类型:
//   - ids.go      - PeerID, RequestID, StreamID
//   - protocol.go - ProtocolID 及其校验
//   - enums.go    - Direction, Connectedness
//   - errors.go   - 公共错误定义
//
// 请求响应类型:
//   - reqres.go   - ProtocolConfig, IncomingRequest, OutgoingResponse,
//     ResponseSender, DialPolicy, OutboundFailure, InboundFailure
//
// 事件类型:
//   - events.go   - 所有事件类型（交换结果、连接状态）
//
// 统计类型:
//   - stats.go    - ProtocolStats, ExchangeStats
//
// # 类型分类
//
// ID 类型:
//   - PeerID     - 节点唯一标识（Base58 编码字符串）
//   - ProtocolID - 协议标识（如 /ping/1）
//   - RequestID  - 出站请求标识（实例内单调递增，永不复用）
//   - StreamID   - 流标识
//
// 事件类型 (EvtXXX):
//   - EvtIncomingRequest   - 入站请求到达
//   - EvtOutboundSucceeded - 出站请求成功
//   - EvtOutboundFailed    - 出站请求失败
//   - EvtInboundFailed     - 入站交换失败（诊断）
//   - EvtPeerConnected     - 节点连接事件
//   - EvtPeerDisconnected  - 节点断开事件
//
// # 设计原则
//
//  1. 不可变性：类型创建后尽量不可修改，使用值类型
//  2. 可比较性：ID 类型支持直接比较，可作为 map key
//  3. 零依赖：不依赖任何其他 go-reqres 内部包（最底层）
//
// # 使用示例
//
//	import "github.com/dep2p/go-reqres/pkg/types"
//
//	// 解析 PeerID
//	peerID, err := types.ParsePeerID("12D3KooW...")
//
//	// 构造协议配置
//	cfg := types.DefaultProtocolConfig("/ping/1")
//	cfg.RequestTimeout = 5 * time.Second
package types
