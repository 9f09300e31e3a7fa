package metrics

import (
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-reqres/config"
)

// ============================================================================
// Fx 模块测试
// ============================================================================

// TestModule_Load 测试模块加载
func TestModule_Load(t *testing.T) {
	app := fxtest.New(t,
		Module,
		fx.Invoke(func(reporter Reporter) {
			if reporter == nil {
				t.Error("Reporter is nil")
			}
		}),
	)
	defer app.RequireStart().RequireStop()
}

// TestModule_Provides 测试模块提供的类型
func TestModule_Provides(t *testing.T) {
	var reporter Reporter

	app := fxtest.New(t,
		Module,
		fx.Populate(&reporter),
	)
	defer app.RequireStart().RequireStop()

	if reporter == nil {
		t.Fatal("Reporter not populated")
	}

	// 测试基本功能
	peer := testPeerID("peer1")
	proto := testProtocolID("/echo/1")

	reporter.RecordRequestSent(proto, peer, 100)
	reporter.RecordRequestSucceeded(proto, peer, 200)

	totals := reporter.BandwidthTotals()
	if totals.TotalOut != 100 {
		t.Errorf("TotalOut = %d, want 100", totals.TotalOut)
	}
	if totals.TotalIn != 200 {
		t.Errorf("TotalIn = %d, want 200", totals.TotalIn)
	}
}

// TestModule_DisabledProvidesNop 测试禁用时提供空实现
func TestModule_DisabledProvidesNop(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	var reporter Reporter

	app := fxtest.New(t,
		fx.Supply(cfg),
		Module,
		fx.Populate(&reporter),
	)
	defer app.RequireStart().RequireStop()

	if _, ok := reporter.(Nop); !ok {
		t.Errorf("reporter type = %T, want Nop", reporter)
	}
}

// TestModule_EnabledProvidesCollector 测试启用时提供收集器
func TestModule_EnabledProvidesCollector(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.PeerCacheSize = 16

	var reporter Reporter

	app := fxtest.New(t,
		fx.Supply(cfg),
		Module,
		fx.Populate(&reporter),
	)
	defer app.RequireStart().RequireStop()

	if _, ok := reporter.(*ExchangeCollector); !ok {
		t.Errorf("reporter type = %T, want *ExchangeCollector", reporter)
	}
}
