// Package eventbus 实现事件总线
package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
	"github.com/dep2p/go-reqres/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("eventbus: invalid event type")
	// ErrNonPointerType 非指针类型
	ErrNonPointerType = errors.New("eventbus: subscribe called with non-pointer type")
	// ErrEmitterClosed 发射器已关闭
	ErrEmitterClosed = errors.New("eventbus: emitter is closed")
)

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
//
// 按事件类型维护主题，订阅与发射通过反射类型路由。
type Bus struct {
	mu sync.RWMutex

	// topics 事件类型到主题的映射
	topics map[reflect.Type]*topic
}

// topic 单一事件类型的主题
type topic struct {
	lk        sync.Mutex
	typ       reflect.Type
	sinks     []*Subscription // 订阅者列表
	nEmitters atomic.Int32    // 发射器引用计数
	keepLast  bool            // 是否保留最近事件（Stateful）
	last      interface{}     // 最近一次发射的事件
	dropped   atomic.Int64    // 丢弃事件计数（慢消费者警告用）
}

// NewBus 创建新的事件总线
func NewBus() *Bus {
	return &Bus{
		topics: make(map[reflect.Type]*topic),
	}
}

// ============================================================================
// EventBus 接口实现
// ============================================================================

// Subscribe 订阅事件
//
// eventType 必须是事件结构体的指针，例如 new(types.EvtPeerDisconnected)。
func (b *Bus) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	elemType, err := eventElemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := &subscriptionSettings{
		Buffer: 16, // 默认缓冲区大小
	}
	for _, opt := range opts {
		opt(settings)
	}

	sub := &Subscription{
		bus: b,
		typ: elemType,
		out: make(chan interface{}, settings.Buffer),
	}

	b.withTopic(elemType, func(tp *topic) {
		tp.sinks = append(tp.sinks, sub)

		// 有状态主题向新订阅者重放最近事件
		if tp.keepLast && tp.last != nil {
			select {
			case sub.out <- tp.last:
			default:
				// 缓冲区满，跳过重放
			}
		}
	})

	return sub, nil
}

// Emitter 获取发射器
func (b *Bus) Emitter(eventType interface{}, opts ...pkgif.EmitterOpt) (pkgif.Emitter, error) {
	elemType, err := eventElemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := &emitterSettings{
		Stateful: false,
	}
	for _, opt := range opts {
		opt(settings)
	}

	var tp *topic
	b.withTopic(elemType, func(t *topic) {
		tp = t
		tp.nEmitters.Add(1)

		if settings.Stateful {
			tp.keepLast = true
		}
	})

	return &Emitter{
		bus:   b,
		topic: tp,
		typ:   elemType,
	}, nil
}

// ============================================================================
// 内部方法
// ============================================================================

// eventElemType 解析事件样本的元素类型
//
// 事件样本必须是非 nil 的结构体指针。
func eventElemType(eventType interface{}) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}

	typ := reflect.TypeOf(eventType)
	if typ == nil {
		return nil, ErrInvalidEventType
	}
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}

	return typ.Elem(), nil
}

// withTopic 在主题上执行操作，主题不存在时创建
func (b *Bus) withTopic(typ reflect.Type, cb func(*topic)) {
	b.mu.Lock()

	tp, ok := b.topics[typ]
	if !ok {
		tp = &topic{
			typ:   typ,
			sinks: make([]*Subscription, 0),
		}
		b.topics[typ] = tp
	}

	tp.lk.Lock()
	b.mu.Unlock()

	cb(tp)
	tp.lk.Unlock()
}

// dropIfIdle 在主题无订阅者且无发射器时删除该主题
func (b *Bus) dropIfIdle(typ reflect.Type) {
	b.mu.Lock()
	tp, ok := b.topics[typ]
	if !ok {
		b.mu.Unlock()
		return
	}

	tp.lk.Lock()
	if len(tp.sinks) > 0 || tp.nEmitters.Load() > 0 {
		tp.lk.Unlock()
		b.mu.Unlock()
		return
	}
	tp.lk.Unlock()

	delete(b.topics, typ)
	b.mu.Unlock()
}

// detach 把订阅从主题中移除
func (b *Bus) detach(sub *Subscription) {
	b.mu.Lock()
	tp, ok := b.topics[sub.typ]
	if !ok {
		b.mu.Unlock()
		return
	}

	tp.lk.Lock()
	b.mu.Unlock()

	for i, s := range tp.sinks {
		if s == sub {
			tp.sinks = append(tp.sinks[:i], tp.sinks[i+1:]...)
			break
		}
	}

	shouldDrop := len(tp.sinks) == 0 && tp.nEmitters.Load() == 0
	tp.lk.Unlock()

	if shouldDrop {
		b.dropIfIdle(sub.typ)
	}
}

// publish 把事件投递给主题的所有订阅者
//
// 投递是非阻塞的：订阅者缓冲区满时事件被丢弃并计数。
func (tp *topic) publish(event interface{}) {
	tp.lk.Lock()
	defer tp.lk.Unlock()

	if tp.keepLast {
		tp.last = event
	}

	for _, sub := range tp.sinks {
		select {
		case sub.out <- event:
			// 投递成功
		default:
			// 缓冲区满，丢弃事件
			dropped := tp.dropped.Add(1)

			// 每丢弃 100 个事件警告一次，避免日志泛滥
			if dropped%100 == 1 {
				logger.Warn("慢消费者检测",
					"dropped", dropped,
					"type", tp.typ,
					"reason", "subscriber buffer full")
			}
		}
	}
}
