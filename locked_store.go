package entangld

import (
	"context"
	"sync"
)

// Locked wraps a Store with a single mutex interlocking every public
// operation, for embedders that drive Get/Set/Receive/etc. from more
// than one goroutine. This is a thin serializing wrapper rather than a
// redesign of Store's internals — the observable ordering of a
// caller-serialized Store is all that needs preserving.
type Locked struct {
	mutex sync.Mutex
	store *Store
}

func NewLocked(store *Store) *Locked {
	return &Locked{store: store}
}

func (self *Locked) Get(ctx context.Context, path string, param any) (any, error) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Get(ctx, path, param)
}

func (self *Locked) Set(path string, value any, params Params) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Set(path, value, params)
}

func (self *Locked) Push(path string, value any, params Params) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Push(path, value, params)
}

func (self *Locked) Subscribe(path string, callback SubscribeCallback, throttle int) (CorrelationId, error) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Subscribe(path, callback, throttle)
}

func (self *Locked) Unsubscribe(pathOrId string) (int, error) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Unsubscribe(pathOrId)
}

func (self *Locked) UnsubscribeTree(path string) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.UnsubscribeTree(path)
}

func (self *Locked) Attach(namespace string, remote RemoteHandle) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Attach(namespace, remote)
}

func (self *Locked) DetachNamespace(namespace string) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.DetachNamespace(namespace)
}

func (self *Locked) DetachRemote(remote RemoteHandle) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.DetachRemote(remote)
}

func (self *Locked) Transmit(fn SendFunction) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Transmit(fn)
}

// Receive takes the lock for the full duration of the demultiplexer,
// including any callback it invokes — matching the unlocked Store's own
// rule that `set` dispatches callbacks before returning.
func (self *Locked) Receive(msg Message, from RemoteHandle) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Receive(msg, from)
}

func (self *Locked) Namespaces() map[string]RemoteHandle {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Namespaces()
}

func (self *Locked) Subscriptions() []SubscriptionInfo {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.store.Subscriptions()
}

func (self *Locked) SetDerefMode(on bool) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	self.store.SetDerefMode(on)
}
