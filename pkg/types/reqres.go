// Package types 定义 go-reqres 的基础类型
//
// 本文件定义请求响应交换的数据模型。
package types

import (
	"fmt"
	"time"
)

// ============================================================================
//                              ProtocolConfig - 协议配置
// ============================================================================

// ProtocolConfig 协议注册配置
//
// 注册后不可变，与交换服务实例同生命周期。
// 兼容旧名（LegacyNames）仅在入站侧参与流匹配，
// 与主名共享同一套大小上限、超时和并发配额。
type ProtocolConfig struct {
	// Name 协议主名（唯一标识，如 /ping/1）
	Name ProtocolID

	// LegacyNames 入站侧接受的兼容旧名（可选）
	LegacyNames []ProtocolID

	// MaxRequestSize 请求负载大小上限（字节）
	MaxRequestSize int

	// MaxResponseSize 应答负载大小上限（字节）
	MaxResponseSize int

	// RequestTimeout 请求超时
	//
	// 出站侧：从提交到收到应答的最长等待时间（含拨号与写出）。
	// 入站侧：从接纳入站流到应答写回完成的最长等待时间。
	RequestTimeout time.Duration

	// MaxConcurrentRequests 入站并发处理上限
	//
	// 同一协议（含兼容旧名）同时处于未应答状态的入站请求数上限，
	// 超出的入站流被立即拒绝，不做无界排队。
	MaxConcurrentRequests int
}

// DefaultProtocolConfig 返回指定协议名的默认配置
func DefaultProtocolConfig(name ProtocolID) ProtocolConfig {
	return ProtocolConfig{
		Name:                  name,
		MaxRequestSize:        1 << 20,  // 1 MiB
		MaxResponseSize:       16 << 20, // 16 MiB
		RequestTimeout:        15 * time.Second,
		MaxConcurrentRequests: 32,
	}
}

// Validate 校验协议配置
func (c ProtocolConfig) Validate() error {
	if err := c.Name.Validate(); err != nil {
		return fmt.Errorf("%w: name: %v", ErrInvalidProtocolConfig, err)
	}
	for _, legacy := range c.LegacyNames {
		if err := legacy.Validate(); err != nil {
			return fmt.Errorf("%w: legacy name %q: %v", ErrInvalidProtocolConfig, legacy, err)
		}
		if legacy == c.Name {
			return fmt.Errorf("%w: legacy name %q duplicates primary name", ErrInvalidProtocolConfig, legacy)
		}
	}
	if c.MaxRequestSize <= 0 {
		return fmt.Errorf("%w: max request size must be positive", ErrInvalidProtocolConfig)
	}
	if c.MaxResponseSize <= 0 {
		return fmt.Errorf("%w: max response size must be positive", ErrInvalidProtocolConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidProtocolConfig)
	}
	if c.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("%w: max concurrent requests must be positive", ErrInvalidProtocolConfig)
	}
	return nil
}

// AllNames 返回主名和所有兼容旧名
func (c ProtocolConfig) AllNames() []ProtocolID {
	names := make([]ProtocolID, 0, 1+len(c.LegacyNames))
	names = append(names, c.Name)
	names = append(names, c.LegacyNames...)
	return names
}

// ============================================================================
//                              DialPolicy - 拨号策略
// ============================================================================

// DialPolicy 目标节点未连接时的处理策略
type DialPolicy int

const (
	// DialPolicyTryConnect 尝试建立连接后再发送（默认）
	DialPolicyTryConnect DialPolicy = iota
	// DialPolicyImmediateError 无活跃连接时立即失败，不触碰传输层
	DialPolicyImmediateError
)

// String 返回拨号策略的字符串表示
func (p DialPolicy) String() string {
	switch p {
	case DialPolicyTryConnect:
		return "try_connect"
	case DialPolicyImmediateError:
		return "immediate_error"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              OutboundFailure - 出站失败原因
// ============================================================================

// OutboundFailure 出站请求失败原因
type OutboundFailure int

const (
	// OutboundFailureNotConnected 无活跃连接（或协议未注册）
	OutboundFailureNotConnected OutboundFailure = iota
	// OutboundFailureDialFailure 拨号失败
	OutboundFailureDialFailure
	// OutboundFailureTimeout 等待应答超时
	OutboundFailureTimeout
	// OutboundFailureConnectionClosed 应答到达前流被关闭或重置
	OutboundFailureConnectionClosed
	// OutboundFailureRequestTooLarge 请求负载超过协议上限（本地拒绝）
	OutboundFailureRequestTooLarge
	// OutboundFailureCodec 应答编解码失败（坏帧或超过应答上限）
	OutboundFailureCodec
)

// String 返回失败原因的字符串表示
func (f OutboundFailure) String() string {
	switch f {
	case OutboundFailureNotConnected:
		return "not_connected"
	case OutboundFailureDialFailure:
		return "dial_failure"
	case OutboundFailureTimeout:
		return "timeout"
	case OutboundFailureConnectionClosed:
		return "connection_closed"
	case OutboundFailureRequestTooLarge:
		return "request_too_large"
	case OutboundFailureCodec:
		return "codec"
	default:
		return "unknown"
	}
}

// Error 实现 error 接口，失败原因可直接作为错误返回
func (f OutboundFailure) Error() string {
	return "outbound request failed: " + f.String()
}

// ============================================================================
//                              InboundFailure - 入站失败原因
// ============================================================================

// InboundFailure 入站交换失败原因
type InboundFailure int

const (
	// InboundFailureBusy 超过协议入站并发上限，流被立即拒绝
	InboundFailureBusy InboundFailure = iota
	// InboundFailureRequestTooLarge 请求负载超过协议上限
	InboundFailureRequestTooLarge
	// InboundFailureTimeout 应用未在超时前提交应答（含主动放弃）
	InboundFailureTimeout
	// InboundFailureConnectionClosed 应答发送前连接已关闭
	InboundFailureConnectionClosed
	// InboundFailureNetwork 应答写回失败
	InboundFailureNetwork
)

// String 返回失败原因的字符串表示
func (f InboundFailure) String() string {
	switch f {
	case InboundFailureBusy:
		return "busy"
	case InboundFailureRequestTooLarge:
		return "request_too_large"
	case InboundFailureTimeout:
		return "timeout"
	case InboundFailureConnectionClosed:
		return "connection_closed"
	case InboundFailureNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error 实现 error 接口，失败原因可直接作为错误返回
func (f InboundFailure) Error() string {
	return "inbound exchange failed: " + f.String()
}

// ============================================================================
//                              IncomingRequest - 入站请求
// ============================================================================

// IncomingRequest 入站请求
//
// 在入站流完成负载读取后构造，随 EvtIncomingRequest 投递给应用层。
// 应用必须通过 Reply 提交应答或调用 Reply.Close 放弃；
// 两者都未发生时，协议超时后流被关闭，远端观察到无负载的流关闭。
type IncomingRequest struct {
	// Peer 请求来源节点
	Peer PeerID

	// Protocol 协议主名（注册名）
	Protocol ProtocolID

	// ReceivedOn 实际协商的线上协议名（主名或兼容旧名），仅用于诊断
	ReceivedOn ProtocolID

	// Payload 请求负载
	Payload []byte

	// Reply 一次性应答发送器
	Reply ResponseSender
}

// ============================================================================
//                              OutgoingResponse - 出站应答
// ============================================================================

// OutgoingResponse 出站应答
//
// 由应用层构造，经 ResponseSender 恰好消费一次。
type OutgoingResponse struct {
	// Payload 应答负载
	Payload []byte

	// SentNotifier 发送结果通知通道（可选）
	//
	// 应答成功写回后收到 nil，写回失败时收到具体错误。
	// 建议使用容量至少为 1 的通道，通知以非阻塞方式发送。
	SentNotifier chan<- error
}

// ============================================================================
//                              ResponseSender - 应答发送器
// ============================================================================

// ResponseSender 一次性应答发送器
//
// 绑定到单个 IncomingRequest。Send 与 Close 合计只有首次调用生效：
//   - Send 之后再次 Send 返回 ErrResponseAlreadySent
//   - Close 之后 Send 返回 ErrResponseSenderClosed
//
// Close 表示应用放弃应答，入站流被立即关闭，远端观察到无负载的流关闭。
type ResponseSender interface {
	// Send 提交应答
	Send(resp OutgoingResponse) error

	// Close 放弃应答
	Close() error
}
