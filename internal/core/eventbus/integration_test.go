package eventbus

import (
	"testing"
	"time"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

// ============================================================================
// 接口集成测试
// ============================================================================

// TestIntegration_InterfaceCompliance 验证接口实现
func TestIntegration_InterfaceCompliance(t *testing.T) {
	var _ pkgif.EventBus = (*Bus)(nil)
	var _ pkgif.Subscription = (*Subscription)(nil)
	var _ pkgif.Emitter = (*Emitter)(nil)
}

// ============================================================================
// 领域事件集成测试
// ============================================================================

// TestIntegration_PeerConnectedEvent 测试连接事件
func TestIntegration_PeerConnectedEvent(t *testing.T) {
	bus := NewBus()

	// 订阅连接事件
	sub, err := bus.Subscribe(new(types.EvtPeerConnected))
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	defer sub.Close()

	// 发射连接事件
	em, err := bus.Emitter(new(types.EvtPeerConnected))
	if err != nil {
		t.Fatalf("Emitter() failed: %v", err)
	}
	defer em.Close()

	testEvent := types.EvtPeerConnected{
		BaseEvent: types.NewBaseEvent(types.EventTypePeerConnected),
		PeerID:    types.PeerID("12D3KooWTest123"),
		Direction: types.DirOutbound,
		NumConns:  1,
	}

	err = em.Emit(testEvent)
	if err != nil {
		t.Errorf("Emit() failed: %v", err)
	}

	// 接收事件
	select {
	case evt := <-sub.Out():
		received, ok := evt.(types.EvtPeerConnected)
		if !ok {
			t.Fatalf("Received wrong event type: %T", evt)
		}
		if received.PeerID != testEvent.PeerID {
			t.Errorf("PeerID = %s, want %s", received.PeerID, testEvent.PeerID)
		}
		if received.NumConns != testEvent.NumConns {
			t.Errorf("NumConns = %d, want %d", received.NumConns, testEvent.NumConns)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for event")
	}
}

// TestIntegration_PeerDisconnectedEvent 测试断连事件
//
// 交换服务靠这条事件流把目标节点的待决请求结算为连接关闭失败，
// 这里验证事件字段完整送达。
func TestIntegration_PeerDisconnectedEvent(t *testing.T) {
	bus := NewBus()

	sub, _ := bus.Subscribe(new(types.EvtPeerDisconnected))
	defer sub.Close()

	em, _ := bus.Emitter(new(types.EvtPeerDisconnected))
	defer em.Close()

	testEvent := types.EvtPeerDisconnected{
		BaseEvent: types.NewBaseEvent(types.EventTypePeerDisconnected),
		PeerID:    types.PeerID("12D3KooWRemote"),
		NumConns:  0,
		Reason:    types.DisconnectReasonGraceful,
	}

	em.Emit(testEvent)

	select {
	case evt := <-sub.Out():
		received, ok := evt.(types.EvtPeerDisconnected)
		if !ok {
			t.Fatalf("Received wrong event type: %T", evt)
		}
		if received.PeerID != testEvent.PeerID {
			t.Errorf("PeerID = %s, want %s", received.PeerID, testEvent.PeerID)
		}
		if received.Reason != types.DisconnectReasonGraceful {
			t.Errorf("Reason = %v, want %v", received.Reason, types.DisconnectReasonGraceful)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for event")
	}
}

// TestIntegration_ConnectDisconnectFlow 测试连接/断连事件流
//
// 模拟传输层的典型发布顺序：先连接后断开，
// 订阅者应按序收到两类事件。
func TestIntegration_ConnectDisconnectFlow(t *testing.T) {
	bus := NewBus()

	connSub, _ := bus.Subscribe(new(types.EvtPeerConnected))
	defer connSub.Close()

	disconnSub, _ := bus.Subscribe(new(types.EvtPeerDisconnected))
	defer disconnSub.Close()

	connEm, _ := bus.Emitter(new(types.EvtPeerConnected))
	defer connEm.Close()

	disconnEm, _ := bus.Emitter(new(types.EvtPeerDisconnected))
	defer disconnEm.Close()

	peer := types.PeerID("12D3KooWFlowPeer")

	// 连接
	connEm.Emit(types.EvtPeerConnected{
		BaseEvent: types.NewBaseEvent(types.EventTypePeerConnected),
		PeerID:    peer,
		Direction: types.DirInbound,
		NumConns:  1,
	})

	// 断开
	disconnEm.Emit(types.EvtPeerDisconnected{
		BaseEvent: types.NewBaseEvent(types.EventTypePeerDisconnected),
		PeerID:    peer,
		NumConns:  0,
		Reason:    types.DisconnectReasonLocal,
	})

	select {
	case evt := <-connSub.Out():
		if evt.(types.EvtPeerConnected).PeerID != peer {
			t.Error("Connected event has wrong peer")
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for connected event")
	}

	select {
	case evt := <-disconnSub.Out():
		if evt.(types.EvtPeerDisconnected).PeerID != peer {
			t.Error("Disconnected event has wrong peer")
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for disconnected event")
	}
}

// TestIntegration_StatefulConnectivity 测试有状态连接事件
//
// 有状态发射器让晚到的订阅者看到最近一次连接状态，
// 交换服务重启订阅时不会错过当前状态。
func TestIntegration_StatefulConnectivity(t *testing.T) {
	bus := NewBus()

	em, _ := bus.Emitter(new(types.EvtPeerConnected), Stateful())
	defer em.Close()

	peer := types.PeerID("12D3KooWStateful")
	em.Emit(types.EvtPeerConnected{
		BaseEvent: types.NewBaseEvent(types.EventTypePeerConnected),
		PeerID:    peer,
		NumConns:  1,
	})

	// 发射之后才订阅
	sub, _ := bus.Subscribe(new(types.EvtPeerConnected))
	defer sub.Close()

	select {
	case evt := <-sub.Out():
		if evt.(types.EvtPeerConnected).PeerID != peer {
			t.Error("Replayed event has wrong peer")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for replayed connectivity event")
	}
}

// TestIntegration_BaseEventTimestamp 测试事件时间戳
func TestIntegration_BaseEventTimestamp(t *testing.T) {
	before := time.Now()
	evt := types.NewBaseEvent(types.EventTypePeerConnected)
	after := time.Now()

	if evt.Timestamp().Before(before) || evt.Timestamp().After(after) {
		t.Errorf("Timestamp %v outside [%v, %v]", evt.Timestamp(), before, after)
	}
	if evt.Type() != types.EventTypePeerConnected {
		t.Errorf("Type = %s, want %s", evt.Type(), types.EventTypePeerConnected)
	}
}
