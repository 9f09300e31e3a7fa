package memnet

import (
	"sync"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

var _ pkgif.Connection = (*Conn)(nil)

// Conn 进程内连接
//
// 连接总是成对创建：拨号方持出站端，被叫方持入站端，
// 两端共享同一 UUID。任一端关闭会级联关闭对端，
// 关闭时重置所有未完成的流。
type Conn struct {
	id         string
	host       *Host
	localPeer  types.PeerID
	remotePeer types.PeerID
	direction  types.Direction
	twin       *Conn

	mu       sync.Mutex
	streams  []*Stream
	closed   bool
	byRemote bool
}

// newConnPair 创建连接对
func newConnPair(dialer, listener *Host) (*Conn, *Conn) {
	id := uuid.NewString()

	out := &Conn{
		id:         id,
		host:       dialer,
		localPeer:  dialer.id,
		remotePeer: listener.id,
		direction:  types.DirOutbound,
	}
	in := &Conn{
		id:         id,
		host:       listener,
		localPeer:  listener.id,
		remotePeer: dialer.id,
		direction:  types.DirInbound,
	}
	out.twin, in.twin = in, out
	return out, in
}

// ID 返回连接标识（两端相同）
func (c *Conn) ID() string {
	return c.id
}

// LocalPeer 返回本地节点 ID
func (c *Conn) LocalPeer() types.PeerID {
	return c.localPeer
}

// RemotePeer 返回远端节点 ID
func (c *Conn) RemotePeer() types.PeerID {
	return c.remotePeer
}

// Direction 返回连接建立方向
func (c *Conn) Direction() types.Direction {
	return c.direction
}

// IsClosed 检查连接是否已关闭
func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close 关闭连接
//
// 重置所有未完成的流并级联关闭对端；两侧都会触发断开通知。
func (c *Conn) Close() error {
	return c.close(false)
}

func (c *Conn) close(byRemote bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.byRemote = byRemote
	streams := c.streams
	c.streams = nil
	c.mu.Unlock()

	// 连接关闭属于异常终止：重置流使对端读写立即失败
	for _, st := range streams {
		_ = st.Reset()
	}

	c.host.swarm.removeConn(c)
	c.host.swarm.notifyDisconnected(c)

	_ = c.twin.close(true)
	return nil
}

// closeReason 返回断开原因（本端视角）
func (c *Conn) closeReason() types.DisconnectReason {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.closed:
		return types.DisconnectReasonUnknown
	case c.byRemote:
		return types.DisconnectReasonGraceful
	default:
		return types.DisconnectReasonLocal
	}
}

// openStream 在连接上打开协商好协议的流对
//
// 返回本端流与对端流；对端流由调用方交给远端处理器。
func (c *Conn) openStream(proto types.ProtocolID) (*Stream, *Stream, error) {
	local, accepted := newStreamPair(c, c.twin, proto)

	if err := c.addStream(local); err != nil {
		_ = local.Reset()
		return nil, nil, err
	}
	if err := c.twin.addStream(accepted); err != nil {
		_ = local.Reset()
		return nil, nil, err
	}

	return local, accepted, nil
}

// addStream 登记流
func (c *Conn) addStream(s *Stream) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return types.ErrConnectionClosed
	}
	c.streams = append(c.streams, s)
	return nil
}

// removeStream 移除流
func (c *Conn) removeStream(s *Stream) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, st := range c.streams {
		if st == s {
			c.streams = append(c.streams[:i], c.streams[i+1:]...)
			break
		}
	}
}
