package memnet

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/dep2p/go-reqres/internal/core/eventbus"
	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/lib/log"
	"github.com/dep2p/go-reqres/pkg/types"
)

var logger = log.Logger("transport/memnet")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrNetworkClosed 网络已关闭
	ErrNetworkClosed = errors.New("memnet: network is closed")

	// ErrDuplicatePeer 节点 ID 已被占用
	ErrDuplicatePeer = errors.New("memnet: peer ID already in use")

	// ErrPeerUnknown 目标节点不在本网络中
	ErrPeerUnknown = errors.New("memnet: unknown peer")

	// ErrDialToSelf 不允许拨号自身
	ErrDialToSelf = errors.New("memnet: dial to self attempted")

	// ErrSwarmClosed 连接层已关闭
	ErrSwarmClosed = errors.New("memnet: swarm is closed")

	// ErrNegotiationFailed 远端未注册任一候选协议
	ErrNegotiationFailed = errors.New("memnet: protocol negotiation failed")
)

// ============================================================================
// Network 实现
// ============================================================================

// Network 进程内节点注册表
//
// 同一 Network 中注册的主机可以互相拨号；
// 对未注册（或已关闭）节点的拨号返回 ErrPeerUnknown。
type Network struct {
	mu    sync.RWMutex
	hosts map[types.PeerID]*Host

	closed atomic.Bool
}

// NewNetwork 创建空网络
func NewNetwork() *Network {
	return &Network{
		hosts: make(map[types.PeerID]*Host),
	}
}

// NewHost 创建并注册新主机
//
// 每个主机拥有独立的事件总线与连接层。
// ID 重复时返回 ErrDuplicatePeer。
func (n *Network) NewHost(id types.PeerID) (*Host, error) {
	if n.closed.Load() {
		return nil, ErrNetworkClosed
	}
	if id == "" {
		return nil, types.ErrEmptyPeerID
	}

	h := &Host{
		id:        id,
		network:   n,
		bus:       eventbus.NewBus(),
		handlers:  make(map[types.ProtocolID]pkgif.StreamHandler),
		connCount: make(map[types.PeerID]int),
	}
	h.swarm = newSwarm(n, h)

	// 主机作为通知器接收连接事件并转发到事件总线
	h.swarm.Notify(h)

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed.Load() {
		return nil, ErrNetworkClosed
	}
	if _, exists := n.hosts[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePeer, id.ShortString())
	}
	n.hosts[id] = h

	logger.Debug("主机已注册", "peerID", id.ShortString())
	return h, nil
}

// Host 查找指定 ID 的主机
func (n *Network) Host(id types.PeerID) (*Host, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	h, ok := n.hosts[id]
	return h, ok
}

// Hosts 返回所有注册的主机
func (n *Network) Hosts() []*Host {
	n.mu.RLock()
	defer n.mu.RUnlock()

	hosts := make([]*Host, 0, len(n.hosts))
	for _, h := range n.hosts {
		hosts = append(hosts, h)
	}
	return hosts
}

// DisconnectPeers 断开两个节点间的所有连接
//
// 用于在测试中模拟对端掉线：两侧都会收到断开通知与事件。
func (n *Network) DisconnectPeers(a, b types.PeerID) error {
	ha, ok := n.Host(a)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeerUnknown, a.ShortString())
	}
	return ha.swarm.ClosePeer(b)
}

// Close 关闭网络与所有主机
func (n *Network) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	n.mu.Lock()
	hosts := make([]*Host, 0, len(n.hosts))
	for _, h := range n.hosts {
		hosts = append(hosts, h)
	}
	n.hosts = make(map[types.PeerID]*Host)
	n.mu.Unlock()

	var errs error
	for _, h := range hosts {
		if err := h.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close host %s: %w", h.id.ShortString(), err))
		}
	}

	logger.Debug("网络已关闭", "hosts", len(hosts))
	return errs
}

// dialPeer 在两个主机之间建立连接对
//
// 拨号方得到出站连接，被叫方得到入站连接；两侧各自触发通知。
func (n *Network) dialPeer(from *Host, to types.PeerID) (*Conn, error) {
	if n.closed.Load() {
		return nil, ErrNetworkClosed
	}

	remote, ok := n.Host(to)
	if !ok || remote.closed.Load() {
		return nil, fmt.Errorf("%w: %s", ErrPeerUnknown, to.ShortString())
	}

	local, accepted := newConnPair(from, remote)

	if err := from.swarm.addConn(local); err != nil {
		return nil, err
	}
	if err := remote.swarm.addConn(accepted); err != nil {
		// 被叫方在拨号期间关闭，回滚本侧登记
		from.swarm.removeConn(local)
		return nil, err
	}

	from.swarm.notifyConnected(local)
	remote.swarm.notifyConnected(accepted)

	logger.Debug("连接已建立",
		"local", from.id.ShortString(),
		"remote", to.ShortString(),
		"connID", local.id)
	return local, nil
}

// removeHost 注销主机（Host.Close 回调）
func (n *Network) removeHost(id types.PeerID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.hosts, id)
}
