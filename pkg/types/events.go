// Package types 定义 go-reqres 公共类型
//
// 本文件定义事件相关类型。
package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              交换事件
// ============================================================================

// EvtIncomingRequest 入站请求到达事件
//
// 应用层必须消费 Request.Reply：提交应答或主动放弃。
type EvtIncomingRequest struct {
	BaseEvent
	Request *IncomingRequest
}

// EvtOutboundSucceeded 出站请求成功事件
type EvtOutboundSucceeded struct {
	BaseEvent
	RequestID RequestID
	Peer      PeerID
	Protocol  ProtocolID
	Payload   []byte        // 应答负载
	Elapsed   time.Duration // 从提交到收到应答的耗时
}

// EvtOutboundFailed 出站请求失败事件
type EvtOutboundFailed struct {
	BaseEvent
	RequestID RequestID
	Peer      PeerID
	Protocol  ProtocolID
	Failure   OutboundFailure
	Err       error // 具体错误（可选）
}

// EvtInboundFailed 入站交换失败事件（诊断）
//
// 远端仅观察到流被关闭；本事件面向本地诊断与统计。
type EvtInboundFailed struct {
	BaseEvent
	Peer     PeerID
	Protocol ProtocolID
	Failure  InboundFailure
	Err      error // 具体错误（可选）
}

// ============================================================================
//                              连接事件
// ============================================================================

// DisconnectReason 断开原因类型
type DisconnectReason int

const (
	// DisconnectReasonUnknown 未知原因
	DisconnectReasonUnknown DisconnectReason = iota
	// DisconnectReasonGraceful 优雅断开（对端主动关闭）
	DisconnectReasonGraceful
	// DisconnectReasonTimeout 空闲超时断开
	DisconnectReasonTimeout
	// DisconnectReasonError 连接错误导致断开
	DisconnectReasonError
	// DisconnectReasonLocal 本地主动关闭连接
	DisconnectReasonLocal
)

// String 返回断开原因的字符串表示
func (r DisconnectReason) String() string {
	switch r {
	case DisconnectReasonGraceful:
		return "graceful"
	case DisconnectReasonTimeout:
		return "timeout"
	case DisconnectReasonError:
		return "error"
	case DisconnectReasonLocal:
		return "local"
	default:
		return "unknown"
	}
}

// EvtPeerConnected 节点连接事件
type EvtPeerConnected struct {
	BaseEvent
	PeerID    PeerID
	Direction Direction
	NumConns  int
}

// EvtPeerDisconnected 节点断开事件
//
// 交换服务订阅此事件：目标为该节点的待决出站请求
// 全部以 ConnectionClosed 失败结算。
type EvtPeerDisconnected struct {
	BaseEvent
	PeerID   PeerID
	NumConns int
	Reason   DisconnectReason
	Error    error // 错误信息（仅 Reason=Error 时有效）
}

// ============================================================================
//                              事件类型常量
// ============================================================================

// 事件类型常量
const (
	EventTypeIncomingRequest   = "incoming_request"
	EventTypeOutboundSucceeded = "outbound_succeeded"
	EventTypeOutboundFailed    = "outbound_failed"
	EventTypeInboundFailed     = "inbound_failed"
	EventTypePeerConnected     = "peer_connected"
	EventTypePeerDisconnected  = "peer_disconnected"
)
