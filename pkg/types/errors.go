// Package types 定义 go-reqres 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              ID 相关错误
// ============================================================================

var (
	// ErrEmptyPeerID 空节点 ID
	ErrEmptyPeerID = errors.New("empty peer ID")

	// ErrInvalidPeerID 无效的节点 ID
	ErrInvalidPeerID = errors.New("invalid peer ID")

	// ErrEmptyProtocolID 空协议 ID
	ErrEmptyProtocolID = errors.New("empty protocol ID")

	// ErrInvalidProtocolID 无效的协议 ID
	ErrInvalidProtocolID = errors.New("invalid protocol ID")
)

// ============================================================================
//                              协议注册相关错误
// ============================================================================

var (
	// ErrDuplicateProtocol 协议名（或其兼容旧名）已被注册
	ErrDuplicateProtocol = errors.New("duplicate protocol")

	// ErrProtocolNotRegistered 协议未注册
	ErrProtocolNotRegistered = errors.New("protocol not registered")

	// ErrInvalidProtocolConfig 协议配置无效
	ErrInvalidProtocolConfig = errors.New("invalid protocol config")
)

// ============================================================================
//                              请求响应相关错误
// ============================================================================

var (
	// ErrRequestTooLarge 请求负载超过协议配置上限
	ErrRequestTooLarge = errors.New("request payload too large")

	// ErrResponseTooLarge 应答负载超过协议配置上限
	ErrResponseTooLarge = errors.New("response payload too large")

	// ErrResponseAlreadySent 应答发送器已被消费
	ErrResponseAlreadySent = errors.New("response already sent")

	// ErrResponseSenderClosed 应答发送器已被放弃
	ErrResponseSenderClosed = errors.New("response sender closed")
)

// ============================================================================
//                              连接相关错误
// ============================================================================

var (
	// ErrNotConnected 未连接
	ErrNotConnected = errors.New("not connected")

	// ErrConnectionClosed 连接已关闭
	ErrConnectionClosed = errors.New("connection closed")

	// ErrDialFailed 拨号失败
	ErrDialFailed = errors.New("dial failed")
)

// ============================================================================
//                              流相关错误
// ============================================================================

var (
	// ErrStreamClosed 流已关闭
	ErrStreamClosed = errors.New("stream closed")

	// ErrStreamReset 流已重置
	ErrStreamReset = errors.New("stream reset")
)

// ============================================================================
//                              通用错误
// ============================================================================

var (
	// ErrClosed 服务已关闭
	ErrClosed = errors.New("service closed")

	// ErrInvalidArgument 参数无效
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTimeout 操作超时
	ErrTimeout = errors.New("operation timeout")
)
