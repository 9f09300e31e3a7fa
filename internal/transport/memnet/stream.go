package memnet

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

var _ pkgif.Stream = (*Stream)(nil)

// 流 ID 分配器（同一流对的两端共享 ID）
var streamCounter atomic.Uint64

// Stream 进程内双向流
//
// 每个方向使用一条独立的 net.Pipe 管道，因而支持半关闭：
// CloseWrite 之后对端读到 EOF，但反方向仍然可用。
// 管道是同步无缓冲的：写入在对端读取前阻塞，受写截止时间约束。
type Stream struct {
	id   types.StreamID
	conn *Conn
	twin *Stream

	// rd 读取对端写入的方向；wr 写入对端读取的方向
	rd net.Conn
	wr net.Conn

	mu       sync.Mutex
	protocol types.ProtocolID
	closed   bool

	// localReset 本端调用过 Reset
	localReset atomic.Bool
	// remoteReset 对端调用过 Reset
	remoteReset atomic.Bool
}

// newStreamPair 创建流对
//
// initiator 持发起端，acceptor 持接受端；两端共享流 ID 与协议。
func newStreamPair(initiator, acceptor *Conn, proto types.ProtocolID) (*Stream, *Stream) {
	id := types.StreamID(streamCounter.Add(1))

	// 两条单向管道：各取一端写、另一端读
	iw, ar := net.Pipe()
	aw, ir := net.Pipe()

	a := &Stream{
		id:       id,
		conn:     initiator,
		wr:       iw,
		rd:       ir,
		protocol: proto,
	}
	b := &Stream{
		id:       id,
		conn:     acceptor,
		wr:       aw,
		rd:       ar,
		protocol: proto,
	}
	a.twin, b.twin = b, a
	return a, b
}

// Read 从流中读取数据
//
// 对端半关闭写端后返回 io.EOF；对端重置后返回 ErrStreamReset。
func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.rd.Read(p)
	return n, s.mapPipeErr(err)
}

// Write 向流中写入数据
func (s *Stream) Write(p []byte) (int, error) {
	n, err := s.wr.Write(p)
	return n, s.mapPipeErr(err)
}

// Close 关闭流（优雅关闭两个方向）
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.wr.Close()
	_ = s.rd.Close()
	s.conn.removeStream(s)
	return nil
}

// CloseWrite 关闭写端（半关闭）
//
// 对端后续读取返回 io.EOF，本端仍可读取。
func (s *Stream) CloseWrite() error {
	return s.wr.Close()
}

// CloseRead 关闭读端（半关闭）
//
// 对端后续写入失败，本端仍可写入。
func (s *Stream) CloseRead() error {
	return s.rd.Close()
}

// Reset 重置流
//
// 对端的读写立即以 ErrStreamReset 失败。
func (s *Stream) Reset() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.localReset.Store(true)
	// 先置标记再关管道：对端解除阻塞时必然观察到重置
	s.twin.remoteReset.Store(true)

	_ = s.wr.Close()
	_ = s.rd.Close()
	s.conn.removeStream(s)
	return nil
}

// SetDeadline 设置读写截止时间
func (s *Stream) SetDeadline(t time.Time) error {
	if err := s.rd.SetReadDeadline(t); err != nil {
		return err
	}
	return s.wr.SetWriteDeadline(t)
}

// SetReadDeadline 设置读截止时间
func (s *Stream) SetReadDeadline(t time.Time) error {
	return s.rd.SetReadDeadline(t)
}

// SetWriteDeadline 设置写截止时间
func (s *Stream) SetWriteDeadline(t time.Time) error {
	return s.wr.SetWriteDeadline(t)
}

// ID 返回流标识
func (s *Stream) ID() types.StreamID {
	return s.id
}

// Protocol 返回流协商的协议 ID
func (s *Stream) Protocol() types.ProtocolID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protocol
}

// SetProtocol 设置流的协议 ID
func (s *Stream) SetProtocol(protocol types.ProtocolID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protocol = protocol
}

// Conn 返回流所属的连接
func (s *Stream) Conn() pkgif.Connection {
	return s.conn
}

// IsClosed 检查流是否已关闭（含被对端重置）
func (s *Stream) IsClosed() bool {
	if s.remoteReset.Load() {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// mapPipeErr 把管道层错误映射为流语义错误
//
// 重置优先于其他错误；EOF 原样透出供编解码层判定帧边界；
// 截止时间错误不做转换，调用方用 os.ErrDeadlineExceeded 判定。
func (s *Stream) mapPipeErr(err error) error {
	if err == nil {
		return nil
	}
	if s.remoteReset.Load() || s.localReset.Load() {
		return types.ErrStreamReset
	}
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if errors.Is(err, io.ErrClosedPipe) {
		return types.ErrStreamClosed
	}
	return err
}
