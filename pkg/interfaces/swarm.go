// Package interfaces 定义 go-reqres 公共接口
//
// 本文件定义 Swarm 接口，即请求响应子系统消费的连接层抽象。
package interfaces

import (
	"context"

	"github.com/dep2p/go-reqres/pkg/types"
)

// Swarm 定义连接群管理接口
//
// Swarm 管理所有出站和入站连接，提供多路复用的连接池。
// 请求响应子系统用它查询连接状态、按拨号策略建立连接，
// 以及订阅连接事件。
type Swarm interface {
	// LocalPeer 返回本地节点 ID
	LocalPeer() types.PeerID

	// Peers 返回所有已连接的节点 ID
	Peers() []types.PeerID

	// Connectedness 返回与指定节点的连接状态
	Connectedness(peerID types.PeerID) types.Connectedness

	// ConnsToPeer 返回到指定节点的所有连接
	ConnsToPeer(peerID types.PeerID) []Connection

	// DialPeer 拨号连接到指定节点
	DialPeer(ctx context.Context, peerID types.PeerID) (Connection, error)

	// ClosePeer 关闭与指定节点的所有连接
	ClosePeer(peerID types.PeerID) error

	// Notify 注册连接事件通知
	Notify(notifier SwarmNotifier)

	// Close 关闭 Swarm
	Close() error
}

// SwarmNotifier 定义 Swarm 事件通知接口
type SwarmNotifier interface {
	// Connected 当建立新连接时调用
	Connected(conn Connection)

	// Disconnected 当连接断开时调用
	Disconnected(conn Connection)
}
