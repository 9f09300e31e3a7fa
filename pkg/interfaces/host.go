// Package interfaces 定义 go-reqres 公共接口
//
// 本文件定义 Host、Stream、Connection 接口，
// 即请求响应子系统消费的连接复用传输层抽象。
package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-reqres/pkg/types"
)

// Host 定义连接复用传输的核心抽象
//
// 由底层 p2p 栈提供：负责拨号、加密、流复用与协议协商。
// 请求响应子系统只通过此接口与网络交互。
type Host interface {
	// ID 返回本地节点 ID
	ID() types.PeerID

	// Connect 连接到指定节点
	//
	// 已连接时应立即返回 nil。地址解析由传输层负责。
	Connect(ctx context.Context, peerID types.PeerID) error

	// SetStreamHandler 为指定协议设置入站流处理器
	SetStreamHandler(protocolID types.ProtocolID, handler StreamHandler)

	// RemoveStreamHandler 移除指定协议的入站流处理器
	RemoveStreamHandler(protocolID types.ProtocolID)

	// NewStream 创建到指定节点的新流
	//
	// 按给出顺序协商协议，返回的流的 Protocol() 为实际协商结果。
	// 要求已存在活跃连接，不隐式拨号。
	NewStream(ctx context.Context, peerID types.PeerID, protocolIDs ...types.ProtocolID) (Stream, error)

	// Network 返回底层 Swarm（连接层）
	Network() Swarm

	// EventBus 返回事件总线
	//
	// 至少发布 types.EvtPeerConnected 与 types.EvtPeerDisconnected。
	EventBus() EventBus

	// Close 关闭主机
	Close() error
}

// StreamHandler 定义流处理函数类型
type StreamHandler func(Stream)

// Stream 定义双向流接口
//
// 一个流承载恰好一次请求响应交换：请求方写入请求后半关闭写端，
// 应答方写回应答后关闭流。
type Stream interface {
	// Read 从流中读取数据
	Read(p []byte) (n int, err error)

	// Write 向流中写入数据
	Write(p []byte) (n int, err error)

	// Close 关闭流
	Close() error

	// CloseWrite 关闭写端（半关闭）
	//
	// 关闭后无法继续写入，但仍可读取。
	// 用于向对端发出"请求已写完"的信号。
	CloseWrite() error

	// CloseRead 关闭读端（半关闭）
	CloseRead() error

	// Reset 重置流（异常关闭）
	//
	// 对端的读写操作将立即失败。用于拒绝入站流和放弃交换。
	Reset() error

	// SetDeadline 设置读写超时
	//
	// 传入零值 time.Time{} 表示不超时。
	SetDeadline(t time.Time) error

	// SetReadDeadline 设置读超时
	SetReadDeadline(t time.Time) error

	// SetWriteDeadline 设置写超时
	SetWriteDeadline(t time.Time) error

	// ID 返回流标识
	ID() types.StreamID

	// Protocol 返回流协商的协议 ID
	Protocol() types.ProtocolID

	// SetProtocol 设置流的协议 ID（协议协商时使用）
	SetProtocol(protocol types.ProtocolID)

	// Conn 返回流所属的连接
	Conn() Connection

	// IsClosed 检查流是否已关闭
	IsClosed() bool
}

// Connection 定义节点间连接接口
type Connection interface {
	// ID 返回连接唯一标识
	ID() string

	// LocalPeer 返回本地节点 ID
	LocalPeer() types.PeerID

	// RemotePeer 返回远端节点 ID
	RemotePeer() types.PeerID

	// Direction 返回连接建立方向
	Direction() types.Direction

	// Close 关闭连接
	Close() error

	// IsClosed 检查连接是否已关闭
	IsClosed() bool
}
