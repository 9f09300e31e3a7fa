package reqres

import (
	"sync"

	"github.com/dep2p/go-reqres/pkg/types"
)

// 确保 responseSender 实现了 types.ResponseSender 接口
var _ types.ResponseSender = (*responseSender)(nil)

// responseSender 一次性应答发送器
//
// 每个入站请求绑定一个实例，Send 与 Close 合计只有一次生效：
// Send 提交应答，Close 主动放弃交换。重复 Send 返回
// ErrResponseAlreadySent；放弃或失效后的 Send 返回
// ErrResponseSenderClosed。Close 在 Send 之后调用是空操作，
// 应用可将其用作无条件清理。
type responseSender struct {
	mu     sync.Mutex
	sent   bool
	closed bool

	// respCh 应答交接通道（容量 1，Send 至多写入一次）
	respCh chan types.OutgoingResponse

	// giveUp 放弃信号，Close 生效时关闭
	giveUp chan struct{}
}

// newResponseSender 创建应答发送器
func newResponseSender() *responseSender {
	return &responseSender{
		respCh: make(chan types.OutgoingResponse, 1),
		giveUp: make(chan struct{}),
	}
}

// Send 提交应答
func (s *responseSender) Send(resp types.OutgoingResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sent {
		return types.ErrResponseAlreadySent
	}
	if s.closed {
		return types.ErrResponseSenderClosed
	}

	s.sent = true
	s.respCh <- resp
	return nil
}

// Close 放弃交换
//
// 未提交应答时生效：调度器复位流并以超时失败结算。
// Send 之后或重复调用均为空操作。
func (s *responseSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sent || s.closed {
		return nil
	}

	s.closed = true
	close(s.giveUp)
	return nil
}

// expire 使发送器失效
//
// 超时或服务停止后由调度器调用，之后的 Send 返回
// ErrResponseSenderClosed。与 Close 不同，不触发放弃信号。
func (s *responseSender) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sent || s.closed {
		return
	}
	s.closed = true
}
