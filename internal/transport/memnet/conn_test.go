package memnet

import (
	"context"
	"testing"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

// TestConn_Pair 测试连接对的基本属性
func TestConn_Pair(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	a, b := newConnectedPair(t, nw)

	connsA := a.Network().ConnsToPeer(b.ID())
	connsB := b.Network().ConnsToPeer(a.ID())
	if len(connsA) != 1 || len(connsB) != 1 {
		t.Fatalf("conns = %d/%d, want 1/1", len(connsA), len(connsB))
	}

	ca, cb := connsA[0], connsB[0]

	if ca.ID() == "" {
		t.Error("conn ID is empty")
	}
	if ca.ID() != cb.ID() {
		t.Errorf("conn IDs differ: %s vs %s", ca.ID(), cb.ID())
	}
	if ca.LocalPeer() != a.ID() || ca.RemotePeer() != b.ID() {
		t.Error("dialer side peers wrong")
	}
	if cb.LocalPeer() != b.ID() || cb.RemotePeer() != a.ID() {
		t.Error("listener side peers wrong")
	}
	if ca.Direction() != types.DirOutbound {
		t.Errorf("dialer Direction = %v, want outbound", ca.Direction())
	}
	if cb.Direction() != types.DirInbound {
		t.Errorf("listener Direction = %v, want inbound", cb.Direction())
	}

	t.Log("✅ 连接对属性正确")
}

// TestConn_CloseCascades 测试关闭级联到对端
func TestConn_CloseCascades(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	a, b := newConnectedPair(t, nw)

	conn := a.Network().ConnsToPeer(b.ID())[0]
	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !conn.IsClosed() {
		t.Error("conn not marked closed")
	}
	if got := a.Network().ConnsToPeer(b.ID()); len(got) != 0 {
		t.Errorf("dialer side still has %d conns", len(got))
	}
	if got := b.Network().ConnsToPeer(a.ID()); len(got) != 0 {
		t.Errorf("listener side still has %d conns", len(got))
	}

	// 幂等
	if err := conn.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	t.Log("✅ 关闭级联到对端")
}

// TestConn_CloseResetsStreams 测试连接关闭重置未完成的流
func TestConn_CloseResetsStreams(t *testing.T) {
	nw := NewNetwork()
	defer nw.Close()

	a, b := newConnectedPair(t, nw)

	accepted := make(chan *Stream, 1)
	b.SetStreamHandler("/hold/1", func(s pkgif.Stream) {
		accepted <- s.(*Stream)
	})

	s, err := a.NewStream(context.Background(), b.ID(), "/hold/1")
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	remote := <-accepted

	if err := a.Network().ClosePeer(b.ID()); err != nil {
		t.Fatalf("ClosePeer failed: %v", err)
	}

	buf := make([]byte, 8)
	if _, err := s.Read(buf); err != types.ErrStreamReset && err != types.ErrStreamClosed {
		t.Errorf("local Read after conn close = %v, want reset/closed", err)
	}
	if _, err := remote.Read(buf); err != types.ErrStreamReset {
		t.Errorf("remote Read after conn close = %v, want ErrStreamReset", err)
	}

	t.Log("✅ 连接关闭重置流")
}
