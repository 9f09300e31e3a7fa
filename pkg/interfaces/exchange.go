// Package interfaces 定义 go-reqres 公共接口
//
// 本文件定义 Exchange 接口，即请求响应交换服务的公共契约。
package interfaces

import (
	"context"

	"github.com/dep2p/go-reqres/pkg/types"
)

// Exchange 定义请求响应交换服务接口
//
// 一个 Exchange 实例管理多个已注册协议的出站与入站交换，
// 并通过单一事件流向应用层报告全部结果。
//
// 使用流程：
//
//	ex, _ := reqres.New(host)
//	_ = ex.RegisterProtocol(types.DefaultProtocolConfig("/ping/1"))
//	_ = ex.Start(ctx)
//	id, _ := ex.SendRequest(peer, "/ping/1", []byte("PING"), types.DialPolicyTryConnect)
//	for evt := range ex.Events() { ... }
type Exchange interface {
	// RegisterProtocol 注册协议
	//
	// 必须在 Start 之前调用；名称冲突返回 types.ErrDuplicateProtocol。
	RegisterProtocol(cfg types.ProtocolConfig) error

	// SendRequest 提交出站请求（非阻塞）
	//
	// 立即返回请求 ID；最终结果以恰好一个
	// EvtOutboundSucceeded 或 EvtOutboundFailed 事件送达。
	SendRequest(peer types.PeerID, protocol types.ProtocolID, payload []byte, policy types.DialPolicy) (types.RequestID, error)

	// Request 发送请求并阻塞等待应答（便捷方法）
	//
	// 内部走与 SendRequest 相同的交换路径，结果不进入事件流。
	// ctx 取消时返回错误，在途交换按原有超时继续结算。
	Request(ctx context.Context, peer types.PeerID, protocol types.ProtocolID, payload []byte) ([]byte, error)

	// Events 返回事件流
	//
	// 包含 EvtIncomingRequest、EvtOutboundSucceeded、
	// EvtOutboundFailed、EvtInboundFailed。
	// 消费方必须持续排空；队列满时内部投递会阻塞（有界背压）。
	Events() <-chan types.Event

	// Stats 返回交换统计快照
	Stats() types.ExchangeStats

	// Start 启动服务
	Start(ctx context.Context) error

	// Stop 停止服务
	Stop() error
}
