package reqres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPeerRateLimiter_Disabled 测试禁用时全部放行
func TestPeerRateLimiter_Disabled(t *testing.T) {
	l, err := NewPeerRateLimiter(DefaultRateLimiterConfig())
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		assert.True(t, l.Allow("peer-a"))
	}
	assert.Equal(t, 0, l.TrackedPeers())
}

// TestPeerRateLimiter_Burst 测试突发额度耗尽后拒绝
func TestPeerRateLimiter_Burst(t *testing.T) {
	l, err := NewPeerRateLimiter(RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		Burst:             3,
		MaxPeers:          16,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("peer-a"), "突发额度内第 %d 次应放行", i+1)
	}
	assert.False(t, l.Allow("peer-a"), "突发额度耗尽后应拒绝")
}

// TestPeerRateLimiter_PerPeer 测试节点间隔离
func TestPeerRateLimiter_PerPeer(t *testing.T) {
	l, err := NewPeerRateLimiter(RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		Burst:             1,
		MaxPeers:          16,
	})
	require.NoError(t, err)

	assert.True(t, l.Allow("peer-a"))
	assert.False(t, l.Allow("peer-a"))

	// peer-a 被限不影响 peer-b
	assert.True(t, l.Allow("peer-b"))
}

// TestPeerRateLimiter_Eviction 测试超基数淘汰
func TestPeerRateLimiter_Eviction(t *testing.T) {
	l, err := NewPeerRateLimiter(RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 100,
		Burst:             50,
		MaxPeers:          2,
	})
	require.NoError(t, err)

	l.Allow("peer-a")
	l.Allow("peer-b")
	l.Allow("peer-c")

	assert.Equal(t, 2, l.TrackedPeers())
}

// TestNewPeerRateLimiter_Invalid 测试无效配置
func TestNewPeerRateLimiter_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  RateLimiterConfig
	}{
		{"速率为零", RateLimiterConfig{Enabled: true, RequestsPerSecond: 0, Burst: 1, MaxPeers: 1}},
		{"突发为零", RateLimiterConfig{Enabled: true, RequestsPerSecond: 1, Burst: 0, MaxPeers: 1}},
		{"基数为零", RateLimiterConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1, MaxPeers: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPeerRateLimiter(tt.cfg)
			assert.Error(t, err)
		})
	}
}
