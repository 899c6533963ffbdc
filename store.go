package entangld

import (
	"fmt"
)

// SendFunction is the transport hook a Store calls to hand a Message to
// a remote. Delivery, and calling Receive on the peer, is the caller's
// responsibility — Store is pure with respect to transport.
type SendFunction func(msg Message, remote RemoteHandle)

// SubscriptionEventFunc is the shape of the subscription(path, id) /
// unsubscription(path, id) notifications emitted when a terminal link
// is installed or removed locally.
type SubscriptionEventFunc func(path string, id CorrelationId)

// Store is one node of the entangld federation: a local data tree, a
// mount table to other stores, an outstanding-request table for
// in-flight gets, and a subscription chain. A Store is not safe for
// concurrent use — callers serialize access; wrap with
// Locked (locked_store.go) if concurrent access is required.
type Store struct {
	tree *node

	namespaceToRemote map[string]RemoteHandle
	remoteToNamespace map[RemoteHandle]string

	requests map[CorrelationId]*Future

	subscriptions []*Subscription

	send SendFunction

	derefMode bool

	onSubscription   *CallbackList[SubscriptionEventFunc]
	onUnsubscription *CallbackList[SubscriptionEventFunc]
}

// NewStore creates an empty Store with an empty root mapping.
func NewStore() *Store {
	return &Store{
		tree:              newMapNode(),
		namespaceToRemote: map[string]RemoteHandle{},
		remoteToNamespace: map[RemoteHandle]string{},
		requests:          map[CorrelationId]*Future{},
		subscriptions:     []*Subscription{},
		onSubscription:    NewCallbackList[SubscriptionEventFunc](),
		onUnsubscription:  NewCallbackList[SubscriptionEventFunc](),
	}
}

// Transmit records the function used to send messages to remotes. It
// fails with InvalidArgument if fn is nil.
func (self *Store) Transmit(fn SendFunction) error {
	if fn == nil {
		return newErr(KindInvalidArgument, "transmit", "", fmt.Errorf("send function must not be nil"))
	}
	self.send = fn
	return nil
}

// SetDerefMode toggles deref_mode: when true, Get walks its result
// replacing every encountered callable leaf with the value it produces,
// awaiting embedded futures
func (self *Store) SetDerefMode(on bool) {
	self.derefMode = on
}

func (self *Store) DerefMode() bool {
	return self.derefMode
}

// Namespaces returns a static snapshot of the namespace → remote mount
// table. The returned map shares no internal references with the
// Store's live state.
func (self *Store) Namespaces() map[string]RemoteHandle {
	out := make(map[string]RemoteHandle, len(self.namespaceToRemote))
	for _, ns := range sortedKeys(self.namespaceToRemote) {
		out[ns] = self.namespaceToRemote[ns]
	}
	return out
}

// Subscriptions returns a static copy of the current subscription list,
// without internal references or callbacks
type SubscriptionInfo struct {
	Path       string
	Id         CorrelationId
	Throttle   int
	IsHead     bool
	IsTerminal bool
}

func (self *Store) Subscriptions() []SubscriptionInfo {
	out := make([]SubscriptionInfo, 0, len(self.subscriptions))
	for _, sub := range self.subscriptions {
		out = append(out, SubscriptionInfo{
			Path:       sub.Path,
			Id:         sub.Id,
			Throttle:   sub.Throttle,
			IsHead:     sub.IsHead(),
			IsTerminal: sub.IsTerminal(),
		})
	}
	return out
}

// SubscribedTo reports whether this store already holds a locally-owned
// (head) subscription at exactly path.
func (self *Store) SubscribedTo(path string) bool {
	for _, sub := range self.subscriptions {
		if sub.IsHead() && sub.Path == path {
			return true
		}
	}
	return false
}

// OnSubscription registers a callback invoked when a terminal
// subscription is installed locally. The returned function cancels it.
func (self *Store) OnSubscription(fn SubscriptionEventFunc) (cancel func()) {
	id := self.onSubscription.Add(fn)
	return func() { self.onSubscription.Remove(id) }
}

// OnUnsubscription registers a callback invoked when a terminal
// subscription is removed locally. The returned function cancels it.
func (self *Store) OnUnsubscription(fn SubscriptionEventFunc) (cancel func()) {
	id := self.onUnsubscription.Add(fn)
	return func() { self.onUnsubscription.Remove(id) }
}

func (self *Store) emitSubscription(path string, id CorrelationId) {
	for _, cb := range self.onSubscription.Get() {
		HandleError(func() { cb(path, id) })
	}
}

func (self *Store) emitUnsubscription(path string, id CorrelationId) {
	for _, cb := range self.onUnsubscription.Get() {
		HandleError(func() { cb(path, id) })
	}
}

// mountResolve finds the longest registered namespace that path is
// beneath If none matches, ok is false and residual
// is path unchanged.
func (self *Store) mountResolve(path string) (remote RemoteHandle, namespace string, residual string, ok bool) {
	best := ""
	bestLen := -1
	for ns := range self.namespaceToRemote {
		if !IsBeneath(path, ns) {
			continue
		}
		if len(ns) > bestLen {
			best = ns
			bestLen = len(ns)
		}
	}
	if bestLen < 0 {
		return nil, "", path, false
	}
	return self.namespaceToRemote[best], best, TrimPrefix(path, best), true
}

func (self *Store) transmit(msg Message, remote RemoteHandle) {
	if self.send == nil {
		traceLog("dropped %s message to %v: no send function configured", msg.Kind, remote)
		return
	}
	self.send(msg, remote)
}
