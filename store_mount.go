package entangld

import "fmt"

// Attach mounts remote at namespace: every path beneath namespace now
// resolves to remote instead of the local tree. Fails with
// InvalidArgument if namespace is empty or remote is nil; fails with
// AlreadyAttached if namespace, or remote, is already mounted (the
// mount table is two mutually inverse maps — one remote may not occupy
// two namespaces in one store).
func (self *Store) Attach(namespace string, remote RemoteHandle) error {
	if namespace == "" || remote == nil {
		return newErr(KindInvalidArgument, "attach", namespace, fmt.Errorf("namespace and remote are required"))
	}
	if _, ok := self.namespaceToRemote[namespace]; ok {
		return newErr(KindAlreadyAttached, "attach", namespace, nil)
	}
	if _, ok := self.remoteToNamespace[remote]; ok {
		return newErr(KindAlreadyAttached, "attach", namespace, fmt.Errorf("remote already mounted at %q", self.remoteToNamespace[remote]))
	}

	self.namespaceToRemote[namespace] = remote
	self.remoteToNamespace[remote] = namespace
	self.installPlaceholder(namespace)

	mountLog("attached %q", namespace)

	self.rehome(namespace)
	return nil
}

// installPlaceholder writes an empty mapping at namespace, so that a
// full-tree read of the owning store reveals the mount's existence.
func (self *Store) installPlaceholder(namespace string) {
	segments := Split(namespace)
	cur := self.tree
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur.children[seg]
		if !ok || next.kind != nodeMap {
			next = newMapNode()
			cur.children[seg] = next
		}
		cur = next
	}
	cur.children[segments[len(segments)-1]] = newMapNode()
}

func (self *Store) removePlaceholder(namespace string) {
	segments := Split(namespace)
	cur := self.tree
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur.children[seg]
		if !ok {
			return
		}
		cur = next
	}
	delete(cur.children, segments[len(segments)-1])
}

// rehome converts every existing subscription whose local path falls
// beneath namespace into a remote chain, now that namespace resolves to
// a mount: snapshot, remove, re-install with the identical chain id and
// throttle so the downstream hop on the new remote starts a fresh chain
// the upstream already correlates to its existing head.
func (self *Store) rehome(namespace string) {
	var affected []*Subscription
	for _, sub := range self.subscriptions {
		if IsBeneath(sub.Path, namespace) {
			affected = append(affected, sub)
		}
	}
	if len(affected) == 0 {
		return
	}

	kept := make([]*Subscription, 0, len(self.subscriptions)-len(affected))
	affectedSet := map[*Subscription]bool{}
	for _, sub := range affected {
		affectedSet[sub] = true
	}
	for _, sub := range self.subscriptions {
		if !affectedSet[sub] {
			kept = append(kept, sub)
		}
	}
	self.subscriptions = kept

	for _, sub := range affected {
		self.installLink(sub.Path, sub.Callback, sub.Upstream, sub.hasUpstream, sub.Id, sub.Throttle)
	}
}

// DetachNamespace unmounts whatever remote is registered at namespace.
// It does not unsubscribe chains already passing through this mount —
// see DESIGN.md's note on open question (a); the next orphaned `event`
// triggers the existing cleanup path instead.
func (self *Store) DetachNamespace(namespace string) error {
	remote, ok := self.namespaceToRemote[namespace]
	if !ok {
		return newErr(KindNotFound, "detach", namespace, nil)
	}
	delete(self.namespaceToRemote, namespace)
	delete(self.remoteToNamespace, remote)
	self.removePlaceholder(namespace)
	mountLog("detached %q", namespace)
	return nil
}

// DetachRemote unmounts remote from whatever namespace it occupies.
func (self *Store) DetachRemote(remote RemoteHandle) error {
	namespace, ok := self.remoteToNamespace[remote]
	if !ok {
		return newErr(KindNotFound, "detach", "", fmt.Errorf("remote not attached"))
	}
	return self.DetachNamespace(namespace)
}
