package reqres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dep2p/go-reqres/pkg/types"
)

// dispatchOutbound 执行一次完整的出站交换
//
// 在独立 goroutine 中运行：按需拨号、打开流、写请求、读应答，
// 任何一步失败都通过追踪器单次结算。本地超限检查先于一切网络操作。
func (s *Service) dispatchOutbound(ctx context.Context, req *pendingRequest, cfg types.ProtocolConfig, payload []byte, policy types.DialPolicy) {
	// 本地检查：请求超限不产生任何网络流量
	if len(payload) > cfg.MaxRequestSize {
		s.failOutbound(ctx, req.id, types.OutboundFailureRequestTooLarge,
			fmt.Errorf("%w: %d > %d", types.ErrRequestTooLarge, len(payload), cfg.MaxRequestSize))
		return
	}

	if err := s.ensureConnected(ctx, req.peer, policy); err != nil {
		failure := types.OutboundFailureDialFailure
		if errors.Is(err, types.ErrNotConnected) {
			failure = types.OutboundFailureNotConnected
		}
		s.failOutbound(ctx, req.id, failure, err)
		return
	}

	stream, err := s.host.NewStream(ctx, req.peer, cfg.AllNames()...)
	if err != nil {
		failure := types.OutboundFailureConnectionClosed
		if errors.Is(err, types.ErrNotConnected) {
			failure = types.OutboundFailureNotConnected
		}
		s.failOutbound(ctx, req.id, failure, err)
		return
	}

	// 流挂入追踪器后，超时与断连清理可以复位它以打断本协程的读写
	if !s.tracker.AttachStream(req.id, stream) {
		_ = stream.Reset()
		return
	}

	_ = stream.SetDeadline(req.deadline)

	if err := s.codec.WriteFrame(stream, payload, cfg.MaxRequestSize); err != nil {
		_ = stream.Reset()
		failure, cause := classifyOutboundWrite(err)
		s.failOutbound(ctx, req.id, failure, cause)
		return
	}

	// 半关闭写端：向对端宣告请求已完整
	if err := stream.CloseWrite(); err != nil {
		_ = stream.Reset()
		s.failOutbound(ctx, req.id, types.OutboundFailureConnectionClosed, err)
		return
	}

	respPayload, err := s.codec.ReadFrame(stream, cfg.MaxResponseSize)
	if err != nil {
		_ = stream.Reset()
		failure, cause := classifyOutboundRead(err)
		s.failOutbound(ctx, req.id, failure, cause)
		return
	}

	_ = stream.Close()
	s.succeedOutbound(ctx, req.id, respPayload)
}

// ensureConnected 按拨号策略确保与目标节点存在连接
//
// ImmediateError 策略下缺少连接立即失败；TryConnect 策略下
// 在并发信号量与拨号超时约束内尝试建立连接。
func (s *Service) ensureConnected(ctx context.Context, peer types.PeerID, policy types.DialPolicy) error {
	if s.host.Network().Connectedness(peer) == types.Connected {
		return nil
	}

	if policy == types.DialPolicyImmediateError {
		return fmt.Errorf("%w: %s", types.ErrNotConnected, peer)
	}

	if err := s.dialSem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %v", types.ErrDialFailed, err)
	}
	defer s.dialSem.Release(1)

	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.DialTimeout)
	defer cancel()

	if err := s.host.Connect(dialCtx, peer); err != nil {
		return fmt.Errorf("%w: %v", types.ErrDialFailed, err)
	}
	return nil
}

// classifyOutboundWrite 将请求写出错误映射为出站失败原因
func classifyOutboundWrite(err error) (types.OutboundFailure, error) {
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded):
		return types.OutboundFailureTimeout, types.ErrTimeout
	case errors.Is(err, ErrFrameTooLarge):
		return types.OutboundFailureRequestTooLarge, types.ErrRequestTooLarge
	default:
		return types.OutboundFailureConnectionClosed, err
	}
}

// classifyOutboundRead 将应答读取错误映射为出站失败原因
//
// 对端静默关闭（未写任何字节）与复位都视为连接关闭；
// 应答超限与 varint 解码失败归为编解码错误。
func classifyOutboundRead(err error) (types.OutboundFailure, error) {
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded):
		return types.OutboundFailureTimeout, types.ErrTimeout
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, types.ErrStreamReset),
		errors.Is(err, types.ErrStreamClosed):
		return types.OutboundFailureConnectionClosed, err
	case errors.Is(err, ErrFrameTooLarge):
		return types.OutboundFailureCodec, fmt.Errorf("%w: %v", types.ErrResponseTooLarge, err)
	default:
		return types.OutboundFailureCodec, err
	}
}
