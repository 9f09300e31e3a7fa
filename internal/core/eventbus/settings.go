// Package eventbus 实现事件总线
package eventbus

import pkgif "github.com/dep2p/go-reqres/pkg/interfaces"

// subscriptionSettings 是 pkg/interfaces.SubscriptionSettings 的别名
type subscriptionSettings = pkgif.SubscriptionSettings

// emitterSettings 是 pkg/interfaces.EmitterSettings 的别名
type emitterSettings = pkgif.EmitterSettings
