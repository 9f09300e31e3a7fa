package reqres

import (
	"context"

	exchange "github.com/dep2p/go-reqres/internal/protocol/reqres"
	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
// 更新此版本号时，请同步更新 version.json
const Version = "v1.0.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string

	// GoVersion Go 版本
	GoVersion string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "go-reqres " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              入口
// ════════════════════════════════════════════════════════════════════════════

// Service 请求响应交换服务
//
// 门面别名，指向 internal/protocol/reqres 的实现。
// 通过 New 创建，RegisterProtocol 注册协议后 Start 启动。
type Service = exchange.Service

// New 创建请求响应交换服务
//
// host 提供流的打开与接收能力，opts 调整服务级行为。
// 创建后处于未启动状态，协议注册必须在 Start 之前完成。
func New(host pkgif.Host, opts ...Option) (*Service, error) {
	return exchange.New(host, opts...)
}

// Start 创建服务、注册协议并启动，一步到位
//
// 等价于依次调用 New、RegisterProtocol（逐个）和 Service.Start。
// 任一步骤失败立即返回错误，此时服务未启动，无需清理。
func Start(ctx context.Context, host pkgif.Host, protocols []types.ProtocolConfig, opts ...Option) (*Service, error) {
	svc, err := New(host, opts...)
	if err != nil {
		return nil, err
	}
	for _, cfg := range protocols {
		if err := svc.RegisterProtocol(cfg); err != nil {
			return nil, err
		}
	}
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
