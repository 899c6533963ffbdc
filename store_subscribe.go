package entangld

import "fmt"

// Subscribe installs a local (head) subscription at path: callback fires
// on every set at path or any path beneath it, subject to throttle
// (every Nth eligible delivery; throttle < 1 is treated as 1). It
// returns the chain identifier shared by every hop this subscription
// grows into as it crosses mounts.
func (self *Store) Subscribe(path string, callback SubscribeCallback, throttle int) (CorrelationId, error) {
	if !validatePath(path) {
		return CorrelationId{}, newErr(KindInvalidArgument, "subscribe", path, fmt.Errorf("invalid path"))
	}
	if callback == nil {
		return CorrelationId{}, newErr(KindInvalidArgument, "subscribe", path, fmt.Errorf("callback is required"))
	}
	id := NewCorrelationId()
	sub := self.installLink(path, callback, nil, false, id, throttle)
	return sub.Id, nil
}

// installLink is the internal link-installer: resolve
// the mount prefix to find this link's downstream, prune any stale link
// sharing (id, path) — defensive cleanup after a rehome, see
// store_mount.go — append the new link, and either forward the
// subscription over the wire (if a downstream exists) or emit the local
// subscription-installed notification (if this link is terminal).
func (self *Store) installLink(path string, callback SubscribeCallback, upstream RemoteHandle, hasUpstream bool, id CorrelationId, throttle int) *Subscription {
	sub := newSubscription(path, id, callback, throttle)
	if hasUpstream {
		sub.setUpstream(upstream)
	}

	downstream, _, residual, ok := self.mountResolve(path)
	if ok {
		sub.setDownstream(downstream)
	}

	self.pruneDuplicate(id, path)
	self.subscriptions = append(self.subscriptions, sub)

	if ok {
		self.transmit(Message{
			Kind:     MessageSubscribe,
			Path:     residual,
			Id:       id,
			Throttle: sub.Throttle,
		}, downstream)
	} else {
		self.emitSubscription(path, id)
	}

	return sub
}

// pruneDuplicate removes any existing link in this store sharing both id
// and path — defensive cleanup after a rehome (store_mount.go), so a
// re-subscribe never leaves a stale duplicate behind. Chains that loop
// back through this store at a different path are unaffected, since
// they naturally differ by path on each hop.
func (self *Store) pruneDuplicate(id CorrelationId, path string) {
	kept := make([]*Subscription, 0, len(self.subscriptions))
	for _, sub := range self.subscriptions {
		if sub.Id.Equal(id) && sub.Path == path {
			continue
		}
		kept = append(kept, sub)
	}
	self.subscriptions = kept
}

// Unsubscribe removes subscriptions matching pathOrId: if pathOrId looks
// like a canonical correlation id, every non-pass-through link sharing
// that id is removed; otherwise every non-pass-through link at exactly
// that path is removed. It returns the count removed, or NotFound if
// nothing matched.
func (self *Store) Unsubscribe(pathOrId string) (int, error) {
	var matched []*Subscription
	if id, err := ParseCorrelationId(pathOrId); err == nil {
		for _, sub := range self.subscriptions {
			if !sub.IsPassThrough() && sub.Id.Equal(id) {
				matched = append(matched, sub)
			}
		}
	} else {
		for _, sub := range self.subscriptions {
			if !sub.IsPassThrough() && sub.Path == pathOrId {
				matched = append(matched, sub)
			}
		}
	}

	if len(matched) == 0 {
		return 0, newErr(KindNotFound, "unsubscribe", pathOrId, nil)
	}

	self.removeLinks(matched)
	return len(matched), nil
}

// UnsubscribeTree removes every non-pass-through link whose local path
// is beneath path. If any link beneath path survives — necessarily a
// pass-through link owned by a remote upstream — it fails with
// PartialFailure.
func (self *Store) UnsubscribeTree(path string) error {
	var matched []*Subscription
	for _, sub := range self.subscriptions {
		if !sub.IsPassThrough() && IsBeneath(sub.Path, path) {
			matched = append(matched, sub)
		}
	}
	self.removeLinks(matched)

	for _, sub := range self.subscriptions {
		if IsBeneath(sub.Path, path) {
			return newErr(KindPartialFailure, "unsubscribe_tree", path, fmt.Errorf("pass-through links remain"))
		}
	}
	return nil
}

// removeLinks is the internal link-remover: every link
// sharing an id with any of links is dropped from the subscription list;
// a removed link with a downstream gets an `unsubscribe` forwarded
// there, one with no downstream gets the local unsubscription-removed
// notification.
func (self *Store) removeLinks(links []*Subscription) {
	ids := map[CorrelationId]bool{}
	for _, sub := range links {
		ids[sub.Id] = true
	}

	var removed []*Subscription
	kept := make([]*Subscription, 0, len(self.subscriptions))
	for _, sub := range self.subscriptions {
		if ids[sub.Id] {
			removed = append(removed, sub)
			continue
		}
		kept = append(kept, sub)
	}
	self.subscriptions = kept

	for _, sub := range removed {
		if sub.IsTerminal() {
			self.emitUnsubscription(sub.Path, sub.Id)
			continue
		}
		self.transmit(Message{
			Kind: MessageUnsubscribe,
			Id:   sub.Id,
		}, sub.Downstream)
	}
}
