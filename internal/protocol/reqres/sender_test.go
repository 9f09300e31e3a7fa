package reqres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-reqres/pkg/types"
)

// TestResponseSender_SendOnce 测试应答只能提交一次
func TestResponseSender_SendOnce(t *testing.T) {
	s := newResponseSender()

	require.NoError(t, s.Send(types.OutgoingResponse{Payload: []byte("PONG")}))

	// 应答在交接通道中等待调度器取走
	select {
	case resp := <-s.respCh:
		assert.Equal(t, []byte("PONG"), resp.Payload)
	default:
		t.Fatal("应答未进入交接通道")
	}

	err := s.Send(types.OutgoingResponse{Payload: []byte("AGAIN")})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrResponseAlreadySent)
}

// TestResponseSender_Close 测试主动放弃
func TestResponseSender_Close(t *testing.T) {
	s := newResponseSender()

	require.NoError(t, s.Close())

	// 放弃信号已触发
	select {
	case <-s.giveUp:
	default:
		t.Fatal("Close 后放弃信号未触发")
	}

	// 放弃后不能再提交
	err := s.Send(types.OutgoingResponse{Payload: []byte("LATE")})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrResponseSenderClosed)

	// 重复放弃是空操作
	assert.NoError(t, s.Close())
}

// TestResponseSender_CloseAfterSend 测试提交后的清理调用
func TestResponseSender_CloseAfterSend(t *testing.T) {
	s := newResponseSender()

	require.NoError(t, s.Send(types.OutgoingResponse{Payload: []byte("PONG")}))
	require.NoError(t, s.Close())

	// Send 之后的 Close 不触发放弃信号
	select {
	case <-s.giveUp:
		t.Fatal("提交后 Close 不应触发放弃信号")
	default:
	}
}

// TestResponseSender_Expire 测试调度器侧失效
func TestResponseSender_Expire(t *testing.T) {
	s := newResponseSender()

	s.expire()

	// 失效后提交被拒绝
	err := s.Send(types.OutgoingResponse{Payload: []byte("LATE")})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrResponseSenderClosed)

	// 失效不触发放弃信号（超时结算由调度器自己完成）
	select {
	case <-s.giveUp:
		t.Fatal("expire 不应触发放弃信号")
	default:
	}

	// 已提交的发送器失效是空操作
	s2 := newResponseSender()
	require.NoError(t, s2.Send(types.OutgoingResponse{Payload: []byte("OK")}))
	s2.expire()
	select {
	case resp := <-s2.respCh:
		assert.Equal(t, []byte("OK"), resp.Payload)
	default:
		t.Fatal("失效不应吞掉已提交的应答")
	}
}
