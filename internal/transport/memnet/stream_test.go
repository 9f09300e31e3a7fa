package memnet

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

// openTestStream 建立一条流并返回两端
func openTestStream(t *testing.T, nw *Network, proto types.ProtocolID) (local, remote *Stream) {
	t.Helper()

	a, b := newConnectedPair(t, nw)

	accepted := make(chan *Stream, 1)
	b.SetStreamHandler(proto, func(s pkgif.Stream) {
		accepted <- s.(*Stream)
	})

	s, err := a.NewStream(context.Background(), b.ID(), proto)
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}

	select {
	case r := <-accepted:
		return s.(*Stream), r
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for accepted stream")
		return nil, nil
	}
}

// TestStream_ReadWrite 测试双向读写
func TestStream_ReadWrite(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/rw/1")
	defer local.Close()
	defer remote.Close()

	go func() {
		buf := make([]byte, 4)
		if _, err := io.ReadFull(remote, buf); err != nil {
			return
		}
		_, _ = remote.Write([]byte("pong"))
	}()

	if _, err := local.Write([]byte("ping")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	buf := make([]byte, 4)
	if _, err := io.ReadFull(local, buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf) != "pong" {
		t.Errorf("read %q, want %q", buf, "pong")
	}

	t.Log("✅ 双向读写成功")
}

// TestStream_SharedID 测试两端共享流 ID
func TestStream_SharedID(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/id/1")
	defer local.Close()
	defer remote.Close()

	if local.ID() == 0 {
		t.Error("stream ID is zero")
	}
	if local.ID() != remote.ID() {
		t.Errorf("stream IDs differ: %d vs %d", local.ID(), remote.ID())
	}
	if local.Conn() == nil || remote.Conn() == nil {
		t.Error("Conn() returned nil")
	}

	t.Log("✅ 流 ID 两端一致")
}

// TestStream_HalfClose 测试半关闭语义
//
// 写端关闭后对端读到 EOF，反方向仍可传输。
func TestStream_HalfClose(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/half/1")
	defer local.Close()
	defer remote.Close()

	done := make(chan error, 1)
	go func() {
		// 对端读到 EOF 为止，再写回应答
		data, err := io.ReadAll(remote)
		if err != nil {
			done <- err
			return
		}
		if string(data) != "request" {
			done <- errors.New("unexpected request payload")
			return
		}
		if _, err = remote.Write([]byte("response")); err != nil {
			done <- err
			return
		}
		done <- remote.CloseWrite()
	}()

	if _, err := local.Write([]byte("request")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := local.CloseWrite(); err != nil {
		t.Fatalf("CloseWrite failed: %v", err)
	}

	// 写端已关，再写失败
	if _, err := local.Write([]byte("x")); !errors.Is(err, types.ErrStreamClosed) {
		t.Errorf("Write after CloseWrite = %v, want ErrStreamClosed", err)
	}

	// 反方向仍可读
	data, err := io.ReadAll(local)
	if err != nil && err != io.EOF {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "response" {
		t.Errorf("read %q, want %q", data, "response")
	}

	if err := <-done; err != nil {
		t.Fatalf("remote side failed: %v", err)
	}

	t.Log("✅ 半关闭语义正确")
}

// TestStream_Reset 测试流重置
func TestStream_Reset(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/reset/1")

	if err := local.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	buf := make([]byte, 8)
	if _, err := remote.Read(buf); !errors.Is(err, types.ErrStreamReset) {
		t.Errorf("remote Read after reset = %v, want ErrStreamReset", err)
	}
	if _, err := remote.Write([]byte("x")); !errors.Is(err, types.ErrStreamReset) {
		t.Errorf("remote Write after reset = %v, want ErrStreamReset", err)
	}

	// 本端后续操作同样报重置
	if _, err := local.Read(buf); !errors.Is(err, types.ErrStreamReset) {
		t.Errorf("local Read after reset = %v, want ErrStreamReset", err)
	}
	if !local.IsClosed() || !remote.IsClosed() {
		t.Error("streams not marked closed after reset")
	}

	t.Log("✅ 重置使两端读写失败")
}

// TestStream_ResetUnblocksReader 测试重置唤醒阻塞中的读取
func TestStream_ResetUnblocksReader(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/reset-block/1")

	errCh := make(chan error, 1)
	go func() {
		buf := make([]byte, 8)
		_, err := remote.Read(buf)
		errCh <- err
	}()

	// 留出时间让读取进入阻塞
	time.Sleep(20 * time.Millisecond)

	if err := local.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, types.ErrStreamReset) {
			t.Errorf("blocked Read returned %v, want ErrStreamReset", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Read not unblocked by reset")
	}

	t.Log("✅ 重置唤醒阻塞读取")
}

// TestStream_ReadDeadline 测试读截止时间
func TestStream_ReadDeadline(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/deadline/1")
	defer local.Close()
	defer remote.Close()

	if err := local.SetReadDeadline(time.Now().Add(30 * time.Millisecond)); err != nil {
		t.Fatalf("SetReadDeadline failed: %v", err)
	}

	buf := make([]byte, 8)
	_, err := local.Read(buf)
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("Read = %v, want deadline exceeded", err)
	}

	// 清除截止时间后恢复可用
	if err := local.SetReadDeadline(time.Time{}); err != nil {
		t.Fatalf("clear deadline failed: %v", err)
	}
	go func() {
		_, _ = remote.Write([]byte("late"))
	}()
	if _, err := io.ReadFull(local, buf[:4]); err != nil {
		t.Fatalf("Read after clearing deadline failed: %v", err)
	}

	t.Log("✅ 读截止时间生效")
}

// TestStream_WriteDeadline 测试写截止时间
//
// 管道无缓冲，对端不读取时写入必须因截止时间失败。
func TestStream_WriteDeadline(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/wdeadline/1")
	defer local.Close()
	defer remote.Close()

	if err := local.SetWriteDeadline(time.Now().Add(30 * time.Millisecond)); err != nil {
		t.Fatalf("SetWriteDeadline failed: %v", err)
	}

	_, err := local.Write([]byte("nobody reads this"))
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("Write = %v, want deadline exceeded", err)
	}

	t.Log("✅ 写截止时间生效")
}

// TestStream_Protocol 测试协议 ID 读写
func TestStream_Protocol(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/proto/1")
	defer local.Close()
	defer remote.Close()

	if local.Protocol() != "/proto/1" || remote.Protocol() != "/proto/1" {
		t.Error("negotiated protocol not set on both ends")
	}

	local.SetProtocol("/proto/2")
	if local.Protocol() != "/proto/2" {
		t.Errorf("Protocol() = %v, want /proto/2", local.Protocol())
	}
	if remote.Protocol() != "/proto/1" {
		t.Error("SetProtocol leaked to remote end")
	}

	t.Log("✅ 协议 ID 读写正确")
}

// TestStream_CloseIdempotent 测试流重复关闭
func TestStream_CloseIdempotent(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	local, remote := openTestStream(t, nw, "/close/1")
	defer remote.Close()

	if err := local.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := local.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if !local.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}

	buf := make([]byte, 4)
	if _, err := local.Read(buf); !errors.Is(err, types.ErrStreamClosed) {
		t.Errorf("Read after Close = %v, want ErrStreamClosed", err)
	}

	t.Log("✅ 关闭幂等")
}
