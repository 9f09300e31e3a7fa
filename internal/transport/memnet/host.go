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

// 编译期接口检查
var (
	_ pkgif.Host          = (*Host)(nil)
	_ pkgif.SwarmNotifier = (*Host)(nil)
)

// Host 进程内主机
//
// 实现 interfaces.Host：拨号、流处理器注册、流创建与事件发布。
// 同时实现 SwarmNotifier，把连接层通知转换为事件总线事件。
type Host struct {
	id      types.PeerID
	network *Network
	swarm   *Swarm
	bus     pkgif.EventBus

	// 流处理器表：协议 ID -> 处理器
	mu       sync.RWMutex
	handlers map[types.ProtocolID]pkgif.StreamHandler

	// 每节点连接计数，用于连接事件去重
	connCountMu sync.Mutex
	connCount   map[types.PeerID]int

	closed atomic.Bool
}

// ID 返回本地节点 ID
func (h *Host) ID() types.PeerID {
	return h.id
}

// Connect 连接到指定节点
//
// 已有连接时立即返回 nil。
func (h *Host) Connect(ctx context.Context, peerID types.PeerID) error {
	if h.closed.Load() {
		return types.ErrClosed
	}
	if h.swarm.Connectedness(peerID) == types.Connected {
		return nil
	}

	_, err := h.swarm.DialPeer(ctx, peerID)
	return err
}

// SetStreamHandler 为指定协议设置入站流处理器
func (h *Host) SetStreamHandler(protocolID types.ProtocolID, handler pkgif.StreamHandler) {
	if handler == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[protocolID] = handler
}

// RemoveStreamHandler 移除指定协议的入站流处理器
func (h *Host) RemoveStreamHandler(protocolID types.ProtocolID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers, protocolID)
}

// NewStream 创建到指定节点的新流
//
// 按给出顺序与远端已注册的处理器协商协议，命中的处理器
// 在远端的独立 goroutine 中运行。要求已存在活跃连接。
func (h *Host) NewStream(ctx context.Context, peerID types.PeerID, protocolIDs ...types.ProtocolID) (pkgif.Stream, error) {
	if h.closed.Load() {
		return nil, types.ErrClosed
	}
	if len(protocolIDs) == 0 {
		return nil, types.ErrEmptyProtocolID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn := h.swarm.bestConnToPeer(peerID)
	if conn == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrNotConnected, peerID.ShortString())
	}

	remote := conn.twin.host
	proto, handler, ok := remote.match(protocolIDs)
	if !ok {
		return nil, fmt.Errorf("%w: peer %s", ErrNegotiationFailed, peerID.ShortString())
	}

	local, accepted, err := conn.openStream(proto)
	if err != nil {
		return nil, err
	}

	// 远端处理器异步消费入站流
	go handler(accepted)

	return local, nil
}

// Network 返回底层连接层
func (h *Host) Network() pkgif.Swarm {
	return h.swarm
}

// EventBus 返回事件总线
func (h *Host) EventBus() pkgif.EventBus {
	return h.bus
}

// Close 关闭主机
//
// 关闭所有连接（对端收到断开事件）并从网络注销。
func (h *Host) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}

	h.network.removeHost(h.id)

	var errs error
	if err := h.swarm.Close(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("close swarm: %w", err))
	}

	logger.Debug("主机已关闭", "peerID", h.id.ShortString())
	return errs
}

// match 按候选顺序查找首个已注册协议的处理器
func (h *Host) match(protocolIDs []types.ProtocolID) (types.ProtocolID, pkgif.StreamHandler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, proto := range protocolIDs {
		if handler, ok := h.handlers[proto]; ok {
			return proto, handler, true
		}
	}
	return "", nil, false
}

// ============================================================================
// SwarmNotifier 实现：连接事件发布
// ============================================================================

// Connected 连接建立时触发（实现 SwarmNotifier）
//
// 按节点去重：只在与该节点的首个连接建立时发布 EvtPeerConnected。
func (h *Host) Connected(conn pkgif.Connection) {
	if h.closed.Load() {
		return
	}

	peer := conn.RemotePeer()

	h.connCountMu.Lock()
	h.connCount[peer]++
	count := h.connCount[peer]
	h.connCountMu.Unlock()

	if count > 1 {
		return
	}

	emitter, err := h.bus.Emitter(new(types.EvtPeerConnected))
	if err != nil {
		logger.Warn("创建连接事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	_ = emitter.Emit(types.EvtPeerConnected{
		BaseEvent: types.NewBaseEvent(types.EventTypePeerConnected),
		PeerID:    peer,
		Direction: conn.Direction(),
		NumConns:  count,
	})
}

// Disconnected 连接断开时触发（实现 SwarmNotifier）
//
// 按节点去重：只在与该节点的最后一个连接断开时发布 EvtPeerDisconnected。
func (h *Host) Disconnected(conn pkgif.Connection) {
	if h.closed.Load() {
		return
	}

	peer := conn.RemotePeer()

	h.connCountMu.Lock()
	if h.connCount[peer] > 0 {
		h.connCount[peer]--
	}
	count := h.connCount[peer]
	if count == 0 {
		delete(h.connCount, peer)
	}
	h.connCountMu.Unlock()

	if count > 0 {
		return
	}

	emitter, err := h.bus.Emitter(new(types.EvtPeerDisconnected))
	if err != nil {
		logger.Warn("创建断开事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	_ = emitter.Emit(types.EvtPeerDisconnected{
		BaseEvent: types.NewBaseEvent(types.EventTypePeerDisconnected),
		PeerID:    peer,
		NumConns:  count,
		Reason:    disconnectReason(conn),
	})
}

// disconnectReason 推断断开原因
func disconnectReason(conn pkgif.Connection) types.DisconnectReason {
	if c, ok := conn.(*Conn); ok {
		return c.closeReason()
	}
	return types.DisconnectReasonUnknown
}
