package memnet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

var _ pkgif.Swarm = (*Swarm)(nil)

// Swarm 进程内连接层
//
// 维护本地主机到其他节点的连接池，并向注册的通知器
// 广播连接建立与断开。
type Swarm struct {
	mu sync.RWMutex

	network *Network
	host    *Host

	// 连接池：peerID -> 连接列表
	conns map[types.PeerID][]*Conn

	// 通知器
	notifiers []pkgif.SwarmNotifier

	closed atomic.Bool
}

// newSwarm 创建连接层
func newSwarm(network *Network, host *Host) *Swarm {
	return &Swarm{
		network: network,
		host:    host,
		conns:   make(map[types.PeerID][]*Conn),
	}
}

// LocalPeer 返回本地节点 ID
func (s *Swarm) LocalPeer() types.PeerID {
	return s.host.id
}

// Peers 返回所有已连接的节点 ID
func (s *Swarm) Peers() []types.PeerID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed.Load() {
		return nil
	}

	peers := make([]types.PeerID, 0, len(s.conns))
	for peerID := range s.conns {
		peers = append(peers, peerID)
	}
	return peers
}

// Connectedness 返回与指定节点的连接状态
func (s *Swarm) Connectedness(peerID types.PeerID) types.Connectedness {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.conns[peerID]) > 0 {
		return types.Connected
	}

	// 网络中存在该节点即视为可连接
	if _, ok := s.network.Host(peerID); ok {
		return types.CanConnect
	}
	return types.NotConnected
}

// ConnsToPeer 返回到指定节点的所有连接
func (s *Swarm) ConnsToPeer(peerID types.PeerID) []pkgif.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns := s.conns[peerID]
	if len(conns) == 0 {
		return nil
	}

	// 返回副本
	out := make([]pkgif.Connection, len(conns))
	for i, c := range conns {
		out[i] = c
	}
	return out
}

// DialPeer 拨号连接到指定节点
//
// 已有连接时直接复用；目标不在网络中时返回 ErrPeerUnknown。
func (s *Swarm) DialPeer(ctx context.Context, peerID types.PeerID) (pkgif.Connection, error) {
	if s.closed.Load() {
		return nil, ErrSwarmClosed
	}
	if peerID == s.host.id {
		return nil, ErrDialToSelf
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if conn := s.bestConnToPeer(peerID); conn != nil {
		return conn, nil
	}

	return s.network.dialPeer(s.host, peerID)
}

// ClosePeer 关闭与指定节点的所有连接
func (s *Swarm) ClosePeer(peerID types.PeerID) error {
	s.mu.RLock()
	conns := make([]*Conn, len(s.conns[peerID]))
	copy(conns, s.conns[peerID])
	s.mu.RUnlock()

	var errs error
	for _, conn := range conns {
		if err := conn.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close conn %s: %w", conn.id, err))
		}
	}
	return errs
}

// Notify 注册连接事件通知器
func (s *Swarm) Notify(notifier pkgif.SwarmNotifier) {
	if notifier == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, notifier)
}

// Close 关闭连接层与所有连接
func (s *Swarm) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	// 收集连接后在锁外关闭，避免与 removeConn 死锁
	s.mu.Lock()
	var all []*Conn
	for _, conns := range s.conns {
		all = append(all, conns...)
	}
	s.conns = make(map[types.PeerID][]*Conn)
	s.mu.Unlock()

	var errs error
	for _, conn := range all {
		if err := conn.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close conn %s: %w", conn.id, err))
		}
	}

	logger.Debug("连接层已关闭",
		"peerID", s.host.id.ShortString(),
		"closedConns", len(all))
	return errs
}

// bestConnToPeer 返回到指定节点的首个活跃连接
func (s *Swarm) bestConnToPeer(peerID types.PeerID) *Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.conns[peerID] {
		if !conn.IsClosed() {
			return conn
		}
	}
	return nil
}

// addConn 登记连接
func (s *Swarm) addConn(conn *Conn) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		conn.Close()
		return ErrSwarmClosed
	}
	s.conns[conn.remotePeer] = append(s.conns[conn.remotePeer], conn)
	s.mu.Unlock()
	return nil
}

// removeConn 移除连接，节点无连接时删除其条目
func (s *Swarm) removeConn(conn *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conns := s.conns[conn.remotePeer]
	for i, c := range conns {
		if c == conn {
			s.conns[conn.remotePeer] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(s.conns[conn.remotePeer]) == 0 {
		delete(s.conns, conn.remotePeer)
	}
}

// notifyConnected 异步广播连接建立
func (s *Swarm) notifyConnected(conn *Conn) {
	s.mu.RLock()
	notifiers := make([]pkgif.SwarmNotifier, len(s.notifiers))
	copy(notifiers, s.notifiers)
	s.mu.RUnlock()

	for _, n := range notifiers {
		go n.Connected(conn)
	}
}

// notifyDisconnected 异步广播连接断开
func (s *Swarm) notifyDisconnected(conn *Conn) {
	s.mu.RLock()
	notifiers := make([]pkgif.SwarmNotifier, len(s.notifiers))
	copy(notifiers, s.notifiers)
	s.mu.RUnlock()

	for _, n := range notifiers {
		go n.Disconnected(conn)
	}
}
