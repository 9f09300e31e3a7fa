package reqres

import (
	exchange "github.com/dep2p/go-reqres/internal/protocol/reqres"
	"github.com/dep2p/go-reqres/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              标识类型
// ════════════════════════════════════════════════════════════════════════════

// PeerID 节点标识
type PeerID = types.PeerID

// ProtocolID 协议标识
type ProtocolID = types.ProtocolID

// RequestID 出站请求标识（服务内单调递增，从 1 开始）
type RequestID = types.RequestID

// ════════════════════════════════════════════════════════════════════════════
//                              协议配置
// ════════════════════════════════════════════════════════════════════════════

// ProtocolConfig 协议配置
type ProtocolConfig = types.ProtocolConfig

// DefaultProtocolConfig 返回指定名称的默认协议配置
func DefaultProtocolConfig(name ProtocolID) ProtocolConfig {
	return types.DefaultProtocolConfig(name)
}

// DialPolicy 目标节点未连接时的处理策略
type DialPolicy = types.DialPolicy

// 拨号策略常量
const (
	DialPolicyTryConnect     = types.DialPolicyTryConnect
	DialPolicyImmediateError = types.DialPolicyImmediateError
)

// ════════════════════════════════════════════════════════════════════════════
//                              失败原因
// ════════════════════════════════════════════════════════════════════════════

// OutboundFailure 出站请求失败原因
type OutboundFailure = types.OutboundFailure

// 出站失败原因常量
const (
	OutboundFailureNotConnected     = types.OutboundFailureNotConnected
	OutboundFailureDialFailure      = types.OutboundFailureDialFailure
	OutboundFailureTimeout          = types.OutboundFailureTimeout
	OutboundFailureConnectionClosed = types.OutboundFailureConnectionClosed
	OutboundFailureRequestTooLarge  = types.OutboundFailureRequestTooLarge
	OutboundFailureCodec            = types.OutboundFailureCodec
)

// InboundFailure 入站交换失败原因
type InboundFailure = types.InboundFailure

// 入站失败原因常量
const (
	InboundFailureBusy             = types.InboundFailureBusy
	InboundFailureRequestTooLarge  = types.InboundFailureRequestTooLarge
	InboundFailureTimeout          = types.InboundFailureTimeout
	InboundFailureConnectionClosed = types.InboundFailureConnectionClosed
	InboundFailureNetwork          = types.InboundFailureNetwork
)

// ════════════════════════════════════════════════════════════════════════════
//                              请求与应答
// ════════════════════════════════════════════════════════════════════════════

// IncomingRequest 入站请求
type IncomingRequest = types.IncomingRequest

// OutgoingResponse 出站应答
type OutgoingResponse = types.OutgoingResponse

// ResponseSender 应答发送器（一次性）
type ResponseSender = types.ResponseSender

// ════════════════════════════════════════════════════════════════════════════
//                              事件
// ════════════════════════════════════════════════════════════════════════════

// Event 事件接口
type Event = types.Event

// EvtIncomingRequest 入站请求事件
type EvtIncomingRequest = types.EvtIncomingRequest

// EvtOutboundSucceeded 出站请求成功事件
type EvtOutboundSucceeded = types.EvtOutboundSucceeded

// EvtOutboundFailed 出站请求失败事件
type EvtOutboundFailed = types.EvtOutboundFailed

// EvtInboundFailed 入站交换失败事件
type EvtInboundFailed = types.EvtInboundFailed

// ════════════════════════════════════════════════════════════════════════════
//                              统计与限流
// ════════════════════════════════════════════════════════════════════════════

// ExchangeStats 交换服务统计快照
type ExchangeStats = types.ExchangeStats

// ProtocolStats 单协议统计
type ProtocolStats = types.ProtocolStats

// RateLimiterConfig 入站限流配置
type RateLimiterConfig = exchange.RateLimiterConfig

// DefaultRateLimiterConfig 返回默认限流配置（禁用）
func DefaultRateLimiterConfig() RateLimiterConfig {
	return exchange.DefaultRateLimiterConfig()
}
