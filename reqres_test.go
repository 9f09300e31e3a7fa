package reqres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-reqres/config"
	"github.com/dep2p/go-reqres/internal/transport/memnet"
	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
)

// TestVersionInfo 测试版本信息字符串
func TestVersionInfo(t *testing.T) {
	info := VersionInfo()
	assert.True(t, strings.HasPrefix(info, "go-reqres "))
	assert.Contains(t, info, Version)
}

// TestNew 测试门面构造函数
func TestNew(t *testing.T) {
	nw := memnet.NewNetwork()
	t.Cleanup(func() { _ = nw.Close() })

	host, err := nw.NewHost("facade-peer")
	require.NoError(t, err)

	svc, err := New(host)
	require.NoError(t, err)
	require.NotNil(t, svc)
	t.Cleanup(func() { _ = svc.Close() })

	// nil host 返回哨兵错误
	_, err = New(nil)
	assert.ErrorIs(t, err, ErrNilHost)
}

// TestStart 测试一步到位的启动入口
func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("正常启动", func(t *testing.T) {
		nw := memnet.NewNetwork()
		t.Cleanup(func() { _ = nw.Close() })

		host, err := nw.NewHost("starter")
		require.NoError(t, err)

		svc, err := Start(ctx, host, []ProtocolConfig{
			DefaultProtocolConfig("/ping/1"),
			DefaultProtocolConfig("/echo/1"),
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = svc.Close() })

		// 已启动：注册窗口关闭
		err = svc.RegisterProtocol(DefaultProtocolConfig("/late/1"))
		assert.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("协议配置非法", func(t *testing.T) {
		nw := memnet.NewNetwork()
		t.Cleanup(func() { _ = nw.Close() })

		host, err := nw.NewHost("starter")
		require.NoError(t, err)

		bad := DefaultProtocolConfig("/bad/1")
		bad.RequestTimeout = 0
		_, err = Start(ctx, host, []ProtocolConfig{bad})
		assert.ErrorIs(t, err, ErrInvalidProtocolConfig)
	})

	t.Run("协议名冲突", func(t *testing.T) {
		nw := memnet.NewNetwork()
		t.Cleanup(func() { _ = nw.Close() })

		host, err := nw.NewHost("starter")
		require.NoError(t, err)

		_, err = Start(ctx, host, []ProtocolConfig{
			DefaultProtocolConfig("/dup/1"),
			DefaultProtocolConfig("/dup/1"),
		})
		assert.ErrorIs(t, err, ErrDuplicateProtocol)
	})
}

// TestFacadePingPong 测试仅通过门面 API 完成一次完整交换
func TestFacadePingPong(t *testing.T) {
	ctx := context.Background()
	nw := memnet.NewNetwork()
	t.Cleanup(func() { _ = nw.Close() })

	serverHost, err := nw.NewHost("server")
	require.NoError(t, err)
	clientHost, err := nw.NewHost("client")
	require.NoError(t, err)

	cfg := DefaultProtocolConfig("/ping/1")

	server, err := Start(ctx, serverHost, []ProtocolConfig{cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })

	client, err := Start(ctx, clientHost, []ProtocolConfig{cfg},
		WithEventQueueSize(16),
		WithExpiryTick(50*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	go func() {
		for {
			select {
			case <-stop:
				return
			case evt := <-server.Events():
				if e, ok := evt.(EvtIncomingRequest); ok {
					_ = e.Request.Reply.Send(OutgoingResponse{Payload: []byte("PONG")})
				}
			}
		}
	}()

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	resp, err := client.Request(reqCtx, "server", "/ping/1", []byte("PING"))
	require.NoError(t, err)
	assert.Equal(t, []byte("PONG"), resp)
}

// TestBuildApp 测试 Fx 应用装配
func TestBuildApp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("完整生命周期", func(t *testing.T) {
		nw := memnet.NewNetwork()
		t.Cleanup(func() { _ = nw.Close() })

		host, err := nw.NewHost("app-peer")
		require.NoError(t, err)

		var ex pkgif.Exchange
		app, err := BuildApp(host, config.NewConfig(),
			fx.Invoke(func(e pkgif.Exchange) error {
				return e.RegisterProtocol(DefaultProtocolConfig("/ping/1"))
			}),
			fx.Populate(&ex),
		)
		require.NoError(t, err)
		require.NoError(t, app.Start(ctx))
		require.NotNil(t, ex)

		// 服务已随应用启动，可直接提交请求
		id, err := ex.SendRequest("nobody", "/ping/1", []byte("PING"), DialPolicyTryConnect)
		require.NoError(t, err)
		assert.Equal(t, RequestID(1), id)

		require.NoError(t, app.Stop(ctx))
	})

	t.Run("nil host", func(t *testing.T) {
		_, err := BuildApp(nil, nil)
		assert.ErrorIs(t, err, ErrNilHost)
	})

	t.Run("配置非法", func(t *testing.T) {
		nw := memnet.NewNetwork()
		t.Cleanup(func() { _ = nw.Close() })

		host, err := nw.NewHost("app-peer")
		require.NoError(t, err)

		bad := config.NewConfig()
		bad.Exchange.EventQueueSize = -1
		_, err = BuildApp(host, bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}
