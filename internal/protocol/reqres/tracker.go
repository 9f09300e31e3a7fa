package reqres

import (
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

// pendingRequest 在途出站请求
//
// 除 stream 外的字段在登记后只读；stream 由 AttachStream
// 在跟踪器锁内挂接，取出后不再变更。
type pendingRequest struct {
	id       types.RequestID
	peer     types.PeerID
	protocol types.ProtocolID

	// submitted 提交时刻，用于计算耗时
	submitted time.Time

	// deadline 截止时间：超过后请求以超时结算
	deadline time.Time

	// done 阻塞调用的结果通道（容量 1，可选）
	// 非 nil 时终态送入此通道而不进入事件流
	done chan types.Event

	// stream 交换进行期间挂接的流（可选）
	stream pkgif.Stream
}

// Tracker 在途请求跟踪器
//
// 每个出站请求从提交到结算恰好经历一次 Insert 与一次取出。
// 取出（Resolve、ExpireOverdue、TakeForPeer、Drain）是唯一的
// 结算承诺点：条目移出表后，对同一 ID 的后续 Resolve 与
// AttachStream 均落空，以此保证每个请求至多产生一个终态。
type Tracker struct {
	mu      sync.Mutex
	clock   clock.Clock
	pending map[types.RequestID]*pendingRequest
}

// NewTracker 创建跟踪器
func NewTracker(clk clock.Clock) *Tracker {
	return &Tracker{
		clock:   clk,
		pending: make(map[types.RequestID]*pendingRequest),
	}
}

// Insert 登记在途请求
func (t *Tracker) Insert(req *pendingRequest) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[req.id] = req
}

// Resolve 结算请求
//
// 返回条目和 true；请求已被结算时返回 nil 和 false。
func (t *Tracker) Resolve(id types.RequestID) (*pendingRequest, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req, ok := t.pending[id]
	if !ok {
		return nil, false
	}
	delete(t.pending, id)
	return req, true
}

// AttachStream 为在途请求挂接活跃流
//
// 请求已被结算时返回 false，调用方应放弃该流。
func (t *Tracker) AttachStream(id types.RequestID, s pkgif.Stream) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	req, ok := t.pending[id]
	if !ok {
		return false
	}
	req.stream = s
	return true
}

// ExpireOverdue 取出全部到期请求
//
// 返回截止时间不晚于当前时刻的条目，按截止时间升序排列，
// 同刻条目按请求 ID 升序，保证结算顺序确定。
func (t *Tracker) ExpireOverdue() []*pendingRequest {
	now := t.clock.Now()

	t.mu.Lock()
	var due []*pendingRequest
	for id, req := range t.pending {
		if !req.deadline.After(now) {
			due = append(due, req)
			delete(t.pending, id)
		}
	}
	t.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due
}

// TakeForPeer 取出目标为指定节点的全部在途请求
//
// 节点断开时调用，返回条目按请求 ID 升序排列。
func (t *Tracker) TakeForPeer(peer types.PeerID) []*pendingRequest {
	t.mu.Lock()
	var taken []*pendingRequest
	for id, req := range t.pending {
		if req.peer == peer {
			taken = append(taken, req)
			delete(t.pending, id)
		}
	}
	t.mu.Unlock()

	sort.Slice(taken, func(i, j int) bool { return taken[i].id < taken[j].id })
	return taken
}

// Drain 取出全部在途请求
//
// 服务停止时调用，返回条目按请求 ID 升序排列。
func (t *Tracker) Drain() []*pendingRequest {
	t.mu.Lock()
	all := make([]*pendingRequest, 0, len(t.pending))
	for _, req := range t.pending {
		all = append(all, req)
	}
	t.pending = make(map[types.RequestID]*pendingRequest)
	t.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].id < all[j].id })
	return all
}

// Len 当前在途请求数
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
