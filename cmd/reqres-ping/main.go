// Package main 提供请求响应交换的演示程序
//
// 在单进程内通过内存传输创建两个节点：一个应答 PING 的服务端
// 和一个周期发送 PING 的客户端，演示两种接入方式：
//   - 服务端走 Fx 应用装配（reqres.BuildApp）
//   - 客户端走一步启动入口（reqres.Start）
//
// 使用方法:
//
//	go run main.go -count 5 -interval 1s
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-reqres"
	"github.com/dep2p/go-reqres/internal/transport/memnet"
	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
)

const pingProtocol = reqres.ProtocolID("/ping/1")

func main() {
	if err := run(); err != nil {
		fmt.Printf("❌ 错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	count := flag.Int("count", 5, "PING 次数")
	interval := flag.Duration("interval", time.Second, "发送间隔")
	timeout := flag.Duration("timeout", 5*time.Second, "单次请求超时")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║            go-reqres PING 演示                        ║")
	fmt.Println("╚══════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获中断信号
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		fmt.Printf("\n收到信号 %v，正在关闭...\n", sig)
		cancel()
	}()

	// 内存网络与两个节点
	nw := memnet.NewNetwork()
	defer func() { _ = nw.Close() }()

	serverHost, err := nw.NewHost("ping-server")
	if err != nil {
		return fmt.Errorf("创建服务端主机失败: %w", err)
	}
	clientHost, err := nw.NewHost("ping-client")
	if err != nil {
		return fmt.Errorf("创建客户端主机失败: %w", err)
	}

	cfg := reqres.ProtocolConfig{
		Name:                  pingProtocol,
		MaxRequestSize:        32,
		MaxResponseSize:       32,
		RequestTimeout:        *timeout,
		MaxConcurrentRequests: 4,
	}

	// 服务端：Fx 应用装配，生命周期由 Fx 管理
	var server pkgif.Exchange
	app, err := reqres.BuildApp(serverHost, nil,
		fx.Invoke(func(ex pkgif.Exchange) error {
			return ex.RegisterProtocol(cfg)
		}),
		fx.Populate(&server),
	)
	if err != nil {
		return fmt.Errorf("装配服务端应用失败: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("启动服务端应用失败: %w", err)
	}
	defer func() { _ = app.Stop(context.Background()) }()

	go servePings(ctx, server)

	// 客户端：一步启动
	client, err := reqres.Start(ctx, clientHost, []reqres.ProtocolConfig{cfg})
	if err != nil {
		return fmt.Errorf("启动客户端失败: %w", err)
	}
	defer func() { _ = client.Close() }()

	fmt.Printf("服务端: %s\n", serverHost.ID())
	fmt.Printf("客户端: %s\n", clientHost.ID())
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// 发送 PING
	for i := 1; i <= *count; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		reqCtx, reqCancel := context.WithTimeout(ctx, *timeout)
		start := time.Now()
		resp, err := client.Request(reqCtx, serverHost.ID(), pingProtocol, []byte("PING"))
		reqCancel()
		if err != nil {
			fmt.Printf("[%d/%d] PING 失败: %v\n", i, *count, err)
		} else {
			fmt.Printf("[%d/%d] PING -> %s (%v)\n", i, *count, resp, time.Since(start).Round(time.Microsecond))
		}

		if i < *count {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(*interval):
			}
		}
	}

	// 打印统计
	stats := client.Stats()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("已发送: %d  成功: %d  失败: %d\n",
		stats.RequestsSent, stats.RequestsSucceeded, stats.RequestsFailed)
	fmt.Println("再见! 👋")
	return nil
}

// servePings 消费服务端事件流并应答 PONG
func servePings(ctx context.Context, server pkgif.Exchange) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-server.Events():
			if in, ok := evt.(reqres.EvtIncomingRequest); ok {
				if err := in.Request.Reply.Send(reqres.OutgoingResponse{Payload: []byte("PONG")}); err != nil {
					fmt.Printf("应答失败: %v\n", err)
				}
			}
		}
	}
}
