package reqres

import (
	"fmt"
	"sync"

	"github.com/dep2p/go-reqres/pkg/types"
)

// Registry 协议注册表
//
// 保存已注册协议的不可变配置，并维护线名（主名与兼容旧名）
// 到配置的索引。冲突检测覆盖全部线名：任何一个线名与已注册
// 协议的任何线名重合即视为冲突。
type Registry struct {
	mu sync.RWMutex

	// configs 主名 → 协议配置
	configs map[types.ProtocolID]types.ProtocolConfig

	// byWire 线名 → 主名
	byWire map[types.ProtocolID]types.ProtocolID
}

// NewRegistry 创建协议注册表
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[types.ProtocolID]types.ProtocolConfig),
		byWire:  make(map[types.ProtocolID]types.ProtocolID),
	}
}

// Register 注册协议
//
// 配置无效时返回校验错误；任一线名冲突时返回
// types.ErrDuplicateProtocol，注册表保持不变。
func (r *Registry) Register(cfg types.ProtocolConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 先整体检查后写入，保证冲突时注册表不变
	names := cfg.AllNames()
	seen := make(map[types.ProtocolID]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s", types.ErrDuplicateProtocol, name)
		}
		seen[name] = struct{}{}
		if _, ok := r.byWire[name]; ok {
			return fmt.Errorf("%w: %s", types.ErrDuplicateProtocol, name)
		}
	}

	r.configs[cfg.Name] = cfg
	for _, name := range names {
		r.byWire[name] = cfg.Name
	}
	return nil
}

// Lookup 按主名查找协议配置
func (r *Registry) Lookup(name types.ProtocolID) (types.ProtocolConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[name]
	return cfg, ok
}

// LookupWire 按线名（主名或兼容旧名）查找协议配置
func (r *Registry) LookupWire(wire types.ProtocolID) (types.ProtocolConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	primary, ok := r.byWire[wire]
	if !ok {
		return types.ProtocolConfig{}, false
	}
	cfg, ok := r.configs[primary]
	return cfg, ok
}

// All 返回全部已注册协议配置
func (r *Registry) All() []types.ProtocolConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]types.ProtocolConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		all = append(all, cfg)
	}
	return all
}

// WireNames 返回全部线名
func (r *Registry) WireNames() []types.ProtocolID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.ProtocolID, 0, len(r.byWire))
	for name := range r.byWire {
		names = append(names, name)
	}
	return names
}

// Len 返回已注册协议数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.configs)
}
