package metrics

import (
	"sync"
	"testing"
)

// ============================================================================
// 并发测试
// ============================================================================

// TestConcurrent_RecordRequests 测试并发记录请求
func TestConcurrent_RecordRequests(t *testing.T) {
	c := NewExchangeCollector(0)

	peer := testPeerID("peer1")
	proto := testProtocolID("/echo/1")

	numGoroutines := 100
	numOps := 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	// 并发记录出站
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				c.RecordRequestSent(proto, peer, 10)
			}
		}()
	}

	// 并发记录入站
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				c.RecordRequestReceived(proto, peer, 20)
			}
		}()
	}

	wg.Wait()

	// 验证统计
	totals := c.BandwidthTotals()
	expectedOut := int64(numGoroutines * numOps * 10)
	expectedIn := int64(numGoroutines * numOps * 20)

	if totals.TotalOut != expectedOut {
		t.Errorf("TotalOut = %d, want %d", totals.TotalOut, expectedOut)
	}
	if totals.TotalIn != expectedIn {
		t.Errorf("TotalIn = %d, want %d", totals.TotalIn, expectedIn)
	}

	stats := c.StatsForProtocol(proto)
	if stats.RequestsSent != uint64(numGoroutines*numOps) {
		t.Errorf("RequestsSent = %d, want %d", stats.RequestsSent, numGoroutines*numOps)
	}
	if stats.RequestsReceived != uint64(numGoroutines*numOps) {
		t.Errorf("RequestsReceived = %d, want %d", stats.RequestsReceived, numGoroutines*numOps)
	}
}

// TestConcurrent_ReadWhileWrite 测试读写并发
func TestConcurrent_ReadWhileWrite(t *testing.T) {
	c := NewExchangeCollector(0)

	proto := testProtocolID("/echo/1")

	var wg sync.WaitGroup

	// 写入方
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			peer := testPeerID("peer" + string(rune('0'+id)))
			for j := 0; j < 100; j++ {
				c.RecordRequestSent(proto, peer, 1)
				c.RecordRequestSucceeded(proto, peer, 1)
			}
		}(i)
	}

	// 读取方
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.StatsForProtocol(proto)
				_ = c.StatsByProtocol()
				_ = c.BandwidthTotals()
			}
		}()
	}

	wg.Wait()

	stats := c.StatsForProtocol(proto)
	if stats.RequestsSent != 1000 {
		t.Errorf("RequestsSent = %d, want 1000", stats.RequestsSent)
	}
}

// TestConcurrent_NewProtocols 测试并发创建协议计数器
func TestConcurrent_NewProtocols(t *testing.T) {
	c := NewExchangeCollector(0)

	peer := testPeerID("peer1")

	var wg sync.WaitGroup
	protos := []string{"/a/1", "/b/1", "/c/1", "/d/1"}

	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c.RecordRequestSent(testProtocolID(protos[idx%len(protos)]), peer, 1)
		}(i)
	}

	wg.Wait()

	byProto := c.StatsByProtocol()
	if len(byProto) != len(protos) {
		t.Errorf("protocols = %d, want %d", len(byProto), len(protos))
	}

	var total uint64
	for _, stats := range byProto {
		total += stats.RequestsSent
	}
	if total != 40 {
		t.Errorf("total RequestsSent = %d, want 40", total)
	}
}

// TestConcurrent_ResetWhileRecording 测试记录时重置
func TestConcurrent_ResetWhileRecording(t *testing.T) {
	c := NewExchangeCollector(0)

	peer := testPeerID("peer1")
	proto := testProtocolID("/echo/1")

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for j := 0; j < 1000; j++ {
			c.RecordRequestSent(proto, peer, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			c.Reset()
		}
	}()

	wg.Wait()

	// 只验证不崩溃、不竞态；计数值取决于交错顺序
}
