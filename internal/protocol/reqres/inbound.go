package reqres

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/sync/semaphore"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

// protocolState 单协议入站运行时状态
//
// 主名与全部兼容旧名共享同一实例：并发配额按逻辑协议计数。
type protocolState struct {
	cfg types.ProtocolConfig

	// slots 入站并发配额，满则立即拒绝
	slots *semaphore.Weighted
}

// newProtocolState 创建协议运行时状态
func newProtocolState(cfg types.ProtocolConfig) *protocolState {
	return &protocolState{
		cfg:   cfg,
		slots: semaphore.NewWeighted(int64(cfg.MaxConcurrentRequests)),
	}
}

// handleInboundStream 处理一条入站流
//
// 由传输层的流处理器回调进入，每条流一个 goroutine。
// 配额与限流检查不通过时流被立即复位，不做排队。
func (s *Service) handleInboundStream(st *protocolState, stream pkgif.Stream) {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		_ = stream.Reset()
		return
	}
	ctx := s.ctx
	s.inflight.Add(1)
	s.mu.RUnlock()
	defer s.inflight.Done()

	peer := stream.Conn().RemotePeer()
	cfg := st.cfg

	// 限流：超出对端速率直接拒绝
	if !s.limiter.Allow(peer) {
		_ = stream.Reset()
		s.cfg.Reporter.RecordInboundRejected(cfg.Name, peer)
		logger.Debug("入站请求被限流", "protocol", cfg.Name, "peer", peer.ShortString())
		s.emitEvent(ctx, types.EvtInboundFailed{
			BaseEvent: types.NewBaseEvent(types.EventTypeInboundFailed),
			Peer:      peer,
			Protocol:  cfg.Name,
			Failure:   types.InboundFailureBusy,
			Err:       ErrRateLimited,
		})
		return
	}

	// 并发配额：满则立即拒绝，不做无界排队
	if !st.slots.TryAcquire(1) {
		_ = stream.Reset()
		s.cfg.Reporter.RecordInboundRejected(cfg.Name, peer)
		logger.Debug("入站并发配额已满", "protocol", cfg.Name, "peer", peer.ShortString())
		s.emitEvent(ctx, types.EvtInboundFailed{
			BaseEvent: types.NewBaseEvent(types.EventTypeInboundFailed),
			Peer:      peer,
			Protocol:  cfg.Name,
			Failure:   types.InboundFailureBusy,
		})
		return
	}
	defer st.slots.Release(1)

	s.serveExchange(ctx, st, stream, peer)
}

// serveExchange 执行一次完整的入站交换
//
// 读取请求、投递应用层、等待应答并写回。
// 整个交换共享同一个绝对截止时间。
func (s *Service) serveExchange(ctx context.Context, st *protocolState, stream pkgif.Stream, peer types.PeerID) {
	cfg := st.cfg
	deadline := s.cfg.Clock.Now().Add(cfg.RequestTimeout)
	_ = stream.SetDeadline(deadline)

	payload, err := s.codec.ReadFrame(stream, cfg.MaxRequestSize)
	if err != nil {
		_ = stream.Reset()
		failure, cause := classifyInboundRead(err)
		if failure == types.InboundFailureRequestTooLarge {
			s.cfg.Reporter.RecordInboundRejected(cfg.Name, peer)
		}
		logger.Debug("入站请求读取失败",
			"protocol", cfg.Name, "peer", peer.ShortString(), "failure", failure.String(), "err", err)
		s.emitEvent(ctx, types.EvtInboundFailed{
			BaseEvent: types.NewBaseEvent(types.EventTypeInboundFailed),
			Peer:      peer,
			Protocol:  cfg.Name,
			Failure:   failure,
			Err:       cause,
		})
		return
	}

	s.cfg.Reporter.RecordRequestReceived(cfg.Name, peer, int64(len(payload)))
	s.activeInbound.Add(1)
	defer s.activeInbound.Add(-1)

	sender := newResponseSender()
	req := &types.IncomingRequest{
		Peer:       peer,
		Protocol:   cfg.Name,
		ReceivedOn: stream.Protocol(),
		Payload:    payload,
		Reply:      sender,
	}

	// 投递应用层（阻塞发射，有界背压）
	if !s.emitEvent(ctx, types.EvtIncomingRequest{
		BaseEvent: types.NewBaseEvent(types.EventTypeIncomingRequest),
		Request:   req,
	}) {
		sender.expire()
		_ = stream.Reset()
		return
	}

	// 等待应答、放弃或超时
	timer := s.cfg.Clock.Timer(deadline.Sub(s.cfg.Clock.Now()))
	defer timer.Stop()

	select {
	case resp := <-sender.respCh:
		s.writeResponse(ctx, st, stream, peer, resp)

	case <-sender.giveUp:
		// 应用主动放弃：立即结算，远端观察到流被复位
		_ = stream.Reset()
		s.emitEvent(ctx, types.EvtInboundFailed{
			BaseEvent: types.NewBaseEvent(types.EventTypeInboundFailed),
			Peer:      peer,
			Protocol:  cfg.Name,
			Failure:   types.InboundFailureTimeout,
		})

	case <-timer.C:
		sender.expire()
		_ = stream.Reset()
		// Send 可能与超时竞争：落败的应答按超时结算并通知提交方
		select {
		case resp := <-sender.respCh:
			notifySent(resp.SentNotifier, types.ErrTimeout)
		default:
		}
		logger.Debug("入站请求等待应答超时",
			"protocol", cfg.Name, "peer", peer.ShortString(), "timeout", cfg.RequestTimeout)
		s.emitEvent(ctx, types.EvtInboundFailed{
			BaseEvent: types.NewBaseEvent(types.EventTypeInboundFailed),
			Peer:      peer,
			Protocol:  cfg.Name,
			Failure:   types.InboundFailureTimeout,
			Err:       types.ErrTimeout,
		})

	case <-ctx.Done():
		sender.expire()
		_ = stream.Reset()
		select {
		case resp := <-sender.respCh:
			notifySent(resp.SentNotifier, types.ErrClosed)
		default:
		}
	}
}

// writeResponse 将应答写回入站流
func (s *Service) writeResponse(ctx context.Context, st *protocolState, stream pkgif.Stream, peer types.PeerID, resp types.OutgoingResponse) {
	cfg := st.cfg

	if err := s.codec.WriteFrame(stream, resp.Payload, cfg.MaxResponseSize); err != nil {
		_ = stream.Reset()
		failure := types.InboundFailureNetwork
		cause := err
		switch {
		case errors.Is(err, ErrFrameTooLarge):
			// 本地应答超限：未写出任何字节
			cause = types.ErrResponseTooLarge
		case errors.Is(err, types.ErrStreamReset), errors.Is(err, types.ErrStreamClosed), errors.Is(err, io.EOF):
			failure = types.InboundFailureConnectionClosed
		}
		notifySent(resp.SentNotifier, cause)
		logger.Debug("应答写回失败",
			"protocol", cfg.Name, "peer", peer.ShortString(), "failure", failure.String(), "err", err)
		s.emitEvent(ctx, types.EvtInboundFailed{
			BaseEvent: types.NewBaseEvent(types.EventTypeInboundFailed),
			Peer:      peer,
			Protocol:  cfg.Name,
			Failure:   failure,
			Err:       cause,
		})
		return
	}

	notifySent(resp.SentNotifier, nil)
	s.cfg.Reporter.RecordResponseSent(cfg.Name, peer, int64(len(resp.Payload)))
	_ = stream.Close()
}

// classifyInboundRead 将请求读取错误映射为入站失败原因
func classifyInboundRead(err error) (types.InboundFailure, error) {
	switch {
	case errors.Is(err, ErrFrameTooLarge):
		return types.InboundFailureRequestTooLarge, types.ErrRequestTooLarge
	case errors.Is(err, os.ErrDeadlineExceeded):
		return types.InboundFailureTimeout, types.ErrTimeout
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, types.ErrStreamReset),
		errors.Is(err, types.ErrStreamClosed):
		return types.InboundFailureConnectionClosed, err
	default:
		return types.InboundFailureNetwork, err
	}
}

// notifySent 向 SentNotifier 投递发送结果（非阻塞）
func notifySent(ch chan<- error, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}
