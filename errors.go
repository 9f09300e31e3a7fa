package reqres

import (
	exchange "github.com/dep2p/go-reqres/internal/protocol/reqres"
	"github.com/dep2p/go-reqres/pkg/types"
)

// 公共错误再导出
//
// 保持与底层哨兵错误同一实例，errors.Is 可跨包匹配。
var (
	// ────────────────────────────────────────────────────────────────────────
	// 服务生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNilHost Host 接口为 nil
	ErrNilHost = exchange.ErrNilHost

	// ErrNotStarted 服务未启动
	ErrNotStarted = exchange.ErrNotStarted

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = exchange.ErrAlreadyStarted

	// ErrClosed 服务已关闭
	ErrClosed = types.ErrClosed

	// ────────────────────────────────────────────────────────────────────────
	// 协议注册错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrDuplicateProtocol 协议名（含旧名）与已注册协议冲突
	ErrDuplicateProtocol = types.ErrDuplicateProtocol

	// ErrProtocolNotRegistered 协议未注册
	ErrProtocolNotRegistered = types.ErrProtocolNotRegistered

	// ErrInvalidProtocolConfig 协议配置非法
	ErrInvalidProtocolConfig = types.ErrInvalidProtocolConfig

	// ────────────────────────────────────────────────────────────────────────
	// 请求响应错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrRequestTooLarge 请求负载超过协议上限
	ErrRequestTooLarge = types.ErrRequestTooLarge

	// ErrResponseTooLarge 应答负载超过协议上限
	ErrResponseTooLarge = types.ErrResponseTooLarge

	// ErrResponseAlreadySent 应答已发送，发送器不可复用
	ErrResponseAlreadySent = types.ErrResponseAlreadySent

	// ErrResponseSenderClosed 应答发送器已关闭
	ErrResponseSenderClosed = types.ErrResponseSenderClosed

	// ErrTimeout 等待应答超时
	ErrTimeout = types.ErrTimeout

	// ────────────────────────────────────────────────────────────────────────
	// 网络错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotConnected 无活跃连接
	ErrNotConnected = types.ErrNotConnected

	// ErrConnectionClosed 连接已关闭
	ErrConnectionClosed = types.ErrConnectionClosed

	// ErrDialFailed 拨号失败
	ErrDialFailed = types.ErrDialFailed

	// ErrRateLimited 对端入站请求被限流
	ErrRateLimited = exchange.ErrRateLimited
)
