package reqres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-reqres/internal/core/metrics"
	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/lib/log"
	"github.com/dep2p/go-reqres/pkg/types"
)

var logger = log.Logger("protocol/reqres")

// 接口断言
var (
	_ pkgif.Exchange         = (*Service)(nil)
	_ metrics.InflightSource = (*Service)(nil)
)

// ============================================================================
//                              服务定义
// ============================================================================

// Service 请求响应交换服务
//
// 管理多个已注册协议的出站与入站交换：
//   - 出站：非阻塞提交，结果以恰好一个成功或失败事件结算
//   - 入站：按协议并发配额接纳，投递应用层并写回应答
//   - 事件：全部结果汇入单一有界事件流
type Service struct {
	host     pkgif.Host
	cfg      *Config
	codec    *Codec
	registry *Registry
	tracker  *Tracker
	limiter  *PeerRateLimiter

	// events 单一事件流，创建后从不关闭
	events chan types.Event

	// nextID 请求 ID 发生器，首个 ID 为 1
	nextID atomic.Uint64

	// dialSem 出站拨号并发上限
	dialSem *semaphore.Weighted

	// activeInbound 已接纳且未结算的入站交换数
	activeInbound atomic.Int64

	mu      sync.RWMutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
	busSub  pkgif.Subscription

	// loops 常驻协程：超时扫描与断连监听
	loops sync.WaitGroup

	// inflight 每交换协程，Stop 在宽限期内等待其收尾
	inflight sync.WaitGroup
}

// New 创建请求响应交换服务
func New(host pkgif.Host, opts ...Option) (*Service, error) {
	if host == nil {
		return nil, ErrNilHost
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.EventQueueSize <= 0 {
		cfg.EventQueueSize = DefaultEventQueueSize
	}
	if cfg.ExpiryTick <= 0 {
		cfg.ExpiryTick = DefaultExpiryTick
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.MaxConcurrentDials <= 0 {
		cfg.MaxConcurrentDials = DefaultMaxConcurrentDials
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Reporter == nil {
		cfg.Reporter = metrics.Nop{}
	}

	limiter, err := NewPeerRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	return &Service{
		host:     host,
		cfg:      cfg,
		codec:    NewCodec(),
		registry: NewRegistry(),
		tracker:  NewTracker(cfg.Clock),
		limiter:  limiter,
		events:   make(chan types.Event, cfg.EventQueueSize),
		dialSem:  semaphore.NewWeighted(int64(cfg.MaxConcurrentDials)),
	}, nil
}

// RegisterProtocol 注册协议
//
// 必须在 Start 之前调用。
func (s *Service) RegisterProtocol(cfg types.ProtocolConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	return s.registry.Register(cfg)
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动服务
//
// 为全部已注册协议安装流处理器，订阅断连事件，
// 并启动超时扫描与断连监听协程。
func (s *Service) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	logger.Info("正在启动请求响应服务...")

	// 创建服务上下文
	// 注意:不能使用传入的 ctx,因为 fx 的 OnStart ctx 在启动完成后会被取消
	s.ctx, s.cancel = context.WithCancel(context.Background())

	// 主名与全部兼容旧名共享同一协议状态,并发配额按逻辑协议计数
	for _, cfg := range s.registry.All() {
		st := newProtocolState(cfg)
		for _, name := range cfg.AllNames() {
			s.host.SetStreamHandler(name, func(stream pkgif.Stream) {
				s.handleInboundStream(st, stream)
			})
		}
	}

	sub, err := s.host.EventBus().Subscribe(new(types.EvtPeerDisconnected))
	if err != nil {
		for _, wire := range s.registry.WireNames() {
			s.host.RemoveStreamHandler(wire)
		}
		s.cancel()
		return fmt.Errorf("failed to subscribe disconnect events: %w", err)
	}
	s.busSub = sub

	s.loops.Add(2)
	go s.expiryLoop(s.ctx)
	go s.watchDisconnects(s.ctx, sub)

	s.started = true
	logger.Info("请求响应服务启动成功", "protocols", s.registry.Len())
	return nil
}

// Stop 停止服务
//
// 移除流处理器，结算全部在途出站请求，
// 并在宽限期内等待在途交换协程收尾。
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.started = false

	logger.Info("正在停止请求响应服务...")

	for _, wire := range s.registry.WireNames() {
		s.host.RemoveStreamHandler(wire)
	}
	s.cancel()
	sub := s.busSub
	s.busSub = nil
	s.mu.Unlock()

	var errs error
	if sub != nil {
		errs = multierr.Append(errs, sub.Close())
	}

	// 结算仍在途的出站请求:唤醒阻塞等待方,事件流停止后不再投递
	for _, req := range s.tracker.Drain() {
		if req.stream != nil {
			_ = req.stream.Reset()
		}
		s.cfg.Reporter.RecordRequestFailed(req.protocol, req.peer)
		if req.done != nil {
			req.done <- types.EvtOutboundFailed{
				BaseEvent: types.NewBaseEvent(types.EventTypeOutboundFailed),
				RequestID: req.id,
				Peer:      req.peer,
				Protocol:  req.protocol,
				Failure:   types.OutboundFailureConnectionClosed,
				Err:       types.ErrClosed,
			}
		}
	}

	s.loops.Wait()

	if !waitTimeout(&s.inflight, s.cfg.Clock, s.cfg.ShutdownTimeout) {
		logger.Warn("等待在途交换收尾超时", "timeout", s.cfg.ShutdownTimeout)
	}

	logger.Info("请求响应服务已停止")
	return errs
}

// Close 停止服务（幂等）
func (s *Service) Close() error {
	if err := s.Stop(); err != nil && !errors.Is(err, ErrNotStarted) {
		return err
	}
	return nil
}

// ============================================================================
//                              出站接口
// ============================================================================

// SendRequest 提交出站请求（非阻塞）
//
// 立即返回请求 ID，最终结果以恰好一个成功或失败事件送达事件流。
func (s *Service) SendRequest(peer types.PeerID, protocol types.ProtocolID, payload []byte, policy types.DialPolicy) (types.RequestID, error) {
	return s.submit(peer, protocol, payload, policy, nil)
}

// Request 发送请求并阻塞等待应答
//
// 内部走与 SendRequest 相同的交换路径，结果不进入事件流。
// ctx 取消只放弃等待，在途交换仍按原有超时结算。
func (s *Service) Request(ctx context.Context, peer types.PeerID, protocol types.ProtocolID, payload []byte) ([]byte, error) {
	done := make(chan types.Event, 1)
	if _, err := s.submit(peer, protocol, payload, types.DialPolicyTryConnect, done); err != nil {
		return nil, err
	}

	select {
	case evt := <-done:
		switch e := evt.(type) {
		case types.EvtOutboundSucceeded:
			return e.Payload, nil
		case types.EvtOutboundFailed:
			if e.Err != nil {
				return nil, fmt.Errorf("request failed (%s): %w", e.Failure, e.Err)
			}
			return nil, fmt.Errorf("request failed (%s)", e.Failure)
		default:
			return nil, errors.New("reqres: unexpected settlement event")
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// submit 请求提交的公共路径
//
// 分配请求 ID、登记追踪器并派发出站协程。
// done 非空时结算事件送往 done 而非事件流。
func (s *Service) submit(peer types.PeerID, protocol types.ProtocolID, payload []byte, policy types.DialPolicy, done chan types.Event) (types.RequestID, error) {
	if peer.IsEmpty() {
		return 0, types.ErrEmptyPeerID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return 0, ErrNotStarted
	}
	ctx := s.ctx

	id := types.RequestID(s.nextID.Add(1))
	s.cfg.Reporter.RecordRequestSent(protocol, peer, int64(len(payload)))

	cfg, ok := s.registry.Lookup(protocol)
	if !ok {
		// 未注册协议:不入追踪器,直接以失败事件结算
		s.cfg.Reporter.RecordRequestFailed(protocol, peer)
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.deliverOutcome(ctx, done, types.EvtOutboundFailed{
				BaseEvent: types.NewBaseEvent(types.EventTypeOutboundFailed),
				RequestID: id,
				Peer:      peer,
				Protocol:  protocol,
				Failure:   types.OutboundFailureNotConnected,
				Err:       fmt.Errorf("%w: %s", types.ErrProtocolNotRegistered, protocol),
			})
		}()
		return id, nil
	}

	now := s.cfg.Clock.Now()
	req := &pendingRequest{
		id:        id,
		peer:      peer,
		protocol:  cfg.Name,
		submitted: now,
		deadline:  now.Add(cfg.RequestTimeout),
		done:      done,
	}
	s.tracker.Insert(req)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.dispatchOutbound(ctx, req, cfg, payload, policy)
	}()
	return id, nil
}

// ============================================================================
//                              结算
// ============================================================================

// failOutbound 以失败结算出站请求
//
// 追踪器移除是唯一的结算提交点:条目已被超时扫描或
// 断连清理取走时,这里什么都不做。
func (s *Service) failOutbound(ctx context.Context, id types.RequestID, failure types.OutboundFailure, cause error) {
	req, ok := s.tracker.Resolve(id)
	if !ok {
		return
	}

	s.cfg.Reporter.RecordRequestFailed(req.protocol, req.peer)
	logger.Debug("出站请求失败",
		"requestID", id, "peer", req.peer.ShortString(), "failure", failure.String(), "err", cause)
	s.deliverOutcome(ctx, req.done, types.EvtOutboundFailed{
		BaseEvent: types.NewBaseEvent(types.EventTypeOutboundFailed),
		RequestID: req.id,
		Peer:      req.peer,
		Protocol:  req.protocol,
		Failure:   failure,
		Err:       cause,
	})
}

// succeedOutbound 以成功结算出站请求
func (s *Service) succeedOutbound(ctx context.Context, id types.RequestID, payload []byte) {
	req, ok := s.tracker.Resolve(id)
	if !ok {
		return
	}

	s.cfg.Reporter.RecordRequestSucceeded(req.protocol, req.peer, int64(len(payload)))
	s.deliverOutcome(ctx, req.done, types.EvtOutboundSucceeded{
		BaseEvent: types.NewBaseEvent(types.EventTypeOutboundSucceeded),
		RequestID: req.id,
		Peer:      req.peer,
		Protocol:  req.protocol,
		Payload:   payload,
		Elapsed:   s.cfg.Clock.Since(req.submitted),
	})
}

// deliverOutcome 投递结算事件
//
// 阻塞式调用方经专用通道直达,不占用事件流。
func (s *Service) deliverOutcome(ctx context.Context, done chan types.Event, evt types.Event) {
	if done != nil {
		done <- evt
		return
	}
	s.emitEvent(ctx, evt)
}

// emitEvent 向事件流投递事件（有界背压）
//
// 队列满时阻塞,服务停止后返回 false 且事件被丢弃。
func (s *Service) emitEvent(ctx context.Context, evt types.Event) bool {
	select {
	case s.events <- evt:
		return true
	case <-ctx.Done():
		return false
	}
}

// ============================================================================
//                              后台循环
// ============================================================================

// expiryLoop 周期扫描在途请求,到期者以超时结算
func (s *Service) expiryLoop(ctx context.Context) {
	defer s.loops.Done()

	ticker := s.cfg.Clock.Ticker(s.cfg.ExpiryTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, req := range s.tracker.ExpireOverdue() {
				// 复位流以打断仍阻塞在读写上的出站协程
				if req.stream != nil {
					_ = req.stream.Reset()
				}
				s.cfg.Reporter.RecordRequestFailed(req.protocol, req.peer)
				logger.Debug("出站请求超时",
					"requestID", req.id, "peer", req.peer.ShortString(), "protocol", req.protocol)
				s.deliverOutcome(ctx, req.done, types.EvtOutboundFailed{
					BaseEvent: types.NewBaseEvent(types.EventTypeOutboundFailed),
					RequestID: req.id,
					Peer:      req.peer,
					Protocol:  req.protocol,
					Failure:   types.OutboundFailureTimeout,
					Err:       types.ErrTimeout,
				})
			}
		}
	}
}

// watchDisconnects 监听断连事件,结算目标节点的全部待决请求
func (s *Service) watchDisconnects(ctx context.Context, sub pkgif.Subscription) {
	defer s.loops.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-sub.Out():
			if !ok {
				return
			}
			evt, ok := raw.(types.EvtPeerDisconnected)
			if !ok {
				continue
			}
			// 仍有存活连接时不结算
			if evt.NumConns > 0 {
				continue
			}
			s.failPeer(ctx, evt.PeerID)
		}
	}
}

// failPeer 以连接关闭结算指定节点的全部待决出站请求
func (s *Service) failPeer(ctx context.Context, peer types.PeerID) {
	for _, req := range s.tracker.TakeForPeer(peer) {
		if req.stream != nil {
			_ = req.stream.Reset()
		}
		s.cfg.Reporter.RecordRequestFailed(req.protocol, req.peer)
		logger.Debug("节点断开,结算待决请求", "requestID", req.id, "peer", peer.ShortString())
		s.deliverOutcome(ctx, req.done, types.EvtOutboundFailed{
			BaseEvent: types.NewBaseEvent(types.EventTypeOutboundFailed),
			RequestID: req.id,
			Peer:      req.peer,
			Protocol:  req.protocol,
			Failure:   types.OutboundFailureConnectionClosed,
			Err:       types.ErrConnectionClosed,
		})
	}
}

// ============================================================================
//                              查询接口
// ============================================================================

// Events 返回事件流
func (s *Service) Events() <-chan types.Event {
	return s.events
}

// Stats 返回交换统计快照
func (s *Service) Stats() types.ExchangeStats {
	byProto := s.cfg.Reporter.StatsByProtocol()

	stats := types.ExchangeStats{
		ActiveOutbound: s.tracker.Len(),
		ActiveInbound:  int(s.activeInbound.Load()),
		Protocols:      byProto,
	}
	for _, ps := range byProto {
		stats.RequestsSent += ps.RequestsSent
		stats.RequestsSucceeded += ps.RequestsSucceeded
		stats.RequestsFailed += ps.RequestsFailed
	}
	return stats
}

// ActiveOutbound 返回当前在途出站请求数
func (s *Service) ActiveOutbound() int {
	return s.tracker.Len()
}

// ActiveInbound 返回当前已接纳未结算的入站交换数
func (s *Service) ActiveInbound() int {
	return int(s.activeInbound.Load())
}

// waitTimeout 带超时等待 WaitGroup
func waitTimeout(wg *sync.WaitGroup, clk clock.Clock, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-clk.After(timeout):
		return false
	}
}
