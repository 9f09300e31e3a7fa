package metrics

import (
	"testing"
)

// ============================================================================
// 边界条件和错误路径测试
// ============================================================================

// TestEdge_ZeroSize 测试零大小
func TestEdge_ZeroSize(t *testing.T) {
	c := NewExchangeCollector(0)

	peer := testPeerID("peer1")
	proto := testProtocolID("/echo/1")

	// 记录零大小
	c.RecordRequestSent(proto, peer, 0)
	c.RecordRequestReceived(proto, peer, 0)

	totals := c.BandwidthTotals()
	if totals.TotalOut != 0 {
		t.Errorf("TotalOut = %d, want 0", totals.TotalOut)
	}
	if totals.TotalIn != 0 {
		t.Errorf("TotalIn = %d, want 0", totals.TotalIn)
	}

	// 计数仍然增加
	stats := c.StatsForProtocol(proto)
	if stats.RequestsSent != 1 {
		t.Errorf("RequestsSent = %d, want 1", stats.RequestsSent)
	}

	// 继续记录正常消息
	c.RecordRequestSent(proto, peer, 100)
	totals = c.BandwidthTotals()
	if totals.TotalOut != 100 {
		t.Errorf("After zero, TotalOut = %d, want 100", totals.TotalOut)
	}
}

// TestEdge_LargeSize 测试大数值
func TestEdge_LargeSize(t *testing.T) {
	c := NewExchangeCollector(0)

	peer := testPeerID("peer1")
	proto := testProtocolID("/blob/1")

	// 记录大数值（1GB）
	largeSize := int64(1024 * 1024 * 1024)
	c.RecordRequestSent(proto, peer, largeSize)
	c.RecordRequestSucceeded(proto, peer, largeSize*2)

	totals := c.BandwidthTotals()
	if totals.TotalOut != largeSize {
		t.Errorf("TotalOut = %d, want %d", totals.TotalOut, largeSize)
	}
	if totals.TotalIn != largeSize*2 {
		t.Errorf("TotalIn = %d, want %d", totals.TotalIn, largeSize*2)
	}
}

// TestEdge_EmptyProtocol 测试空协议 ID
func TestEdge_EmptyProtocol(t *testing.T) {
	c := NewExchangeCollector(0)

	peer := testPeerID("peer1")

	// 空协议 ID 不应崩溃（调用方应保证非空，这里只验证健壮性）
	c.RecordRequestSent(testProtocolID(""), peer, 100)

	stats := c.StatsForProtocol(testProtocolID(""))
	if stats.RequestsSent != 1 {
		t.Errorf("empty protocol RequestsSent = %d, want 1", stats.RequestsSent)
	}
}

// TestEdge_DefaultCacheSize 测试默认缓存容量
func TestEdge_DefaultCacheSize(t *testing.T) {
	// 非正容量回落到默认值
	c1 := NewExchangeCollector(0)
	c2 := NewExchangeCollector(-5)

	peer := testPeerID("peer1")
	proto := testProtocolID("/echo/1")

	c1.RecordRequestSent(proto, peer, 100)
	c2.RecordRequestSent(proto, peer, 100)

	if stats := c1.BandwidthForPeer(peer); stats.TotalOut != 100 {
		t.Errorf("c1 peer TotalOut = %d, want 100", stats.TotalOut)
	}
	if stats := c2.BandwidthForPeer(peer); stats.TotalOut != 100 {
		t.Errorf("c2 peer TotalOut = %d, want 100", stats.TotalOut)
	}
}

// TestEdge_RateMeterWindow 测试速率计算器窗口
func TestEdge_RateMeterWindow(t *testing.T) {
	r := NewRateMeter()

	r.Add(600)

	// 60 秒窗口的平均速率
	rate := r.Rate()
	if rate != 10.0 {
		t.Errorf("Rate = %f, want 10.0", rate)
	}

	if r.Total() != 600 {
		t.Errorf("Total = %d, want 600", r.Total())
	}

	r.Reset()
	if r.Rate() != 0 {
		t.Errorf("after Reset, Rate = %f, want 0", r.Rate())
	}
}
