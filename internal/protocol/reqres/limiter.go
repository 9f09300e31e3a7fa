package reqres

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-reqres/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
// PeerRateLimiter - 按节点入站限流器
// ════════════════════════════════════════════════════════════════════════════

// RateLimiterConfig 入站限流配置
type RateLimiterConfig struct {
	// Enabled 是否启用限流
	Enabled bool

	// RequestsPerSecond 单节点每秒允许的请求数
	RequestsPerSecond float64

	// Burst 单节点允许的突发请求数
	Burst int

	// MaxPeers 跟踪的节点数上限（超出时最久未活动节点被淘汰）
	MaxPeers int
}

// DefaultRateLimiterConfig 返回默认配置（禁用）
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Enabled:           false,
		RequestsPerSecond: 100,
		Burst:             50,
		MaxPeers:          1024,
	}
}

// PeerRateLimiter 按节点令牌桶限流器
//
// 每个节点一个令牌桶；桶集合放在 LRU 缓存中限制基数，
// 超过 MaxPeers 时最久未活动节点的桶被淘汰。
// 未启用时 Allow 恒为 true。
type PeerRateLimiter struct {
	config RateLimiterConfig
	peers  *lru.Cache[types.PeerID, *rate.Limiter]
}

// NewPeerRateLimiter 创建限流器
func NewPeerRateLimiter(config RateLimiterConfig) (*PeerRateLimiter, error) {
	l := &PeerRateLimiter{config: config}

	if config.Enabled {
		if config.RequestsPerSecond <= 0 || config.Burst <= 0 || config.MaxPeers <= 0 {
			return nil, errors.New("reqres: invalid rate limiter config")
		}
		cache, err := lru.New[types.PeerID, *rate.Limiter](config.MaxPeers)
		if err != nil {
			return nil, err
		}
		l.peers = cache
	}

	return l, nil
}

// Allow 检查节点的一次入站请求是否放行
func (l *PeerRateLimiter) Allow(peer types.PeerID) bool {
	if !l.config.Enabled {
		return true
	}

	limiter, ok := l.peers.Get(peer)
	if !ok {
		fresh := rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)
		if prev, found, _ := l.peers.PeekOrAdd(peer, fresh); found {
			limiter = prev
		} else {
			limiter = fresh
		}
	}

	return limiter.Allow()
}

// TrackedPeers 当前被跟踪的节点数
func (l *PeerRateLimiter) TrackedPeers() int {
	if l.peers == nil {
		return 0
	}
	return l.peers.Len()
}
