package entangld

import "fmt"

// Set writes value at path, kind `set`: if value is nil, the leaf is
// removed. Fails with ConflictingMount if path would overwrite or
// shadow an attached mount.
func (self *Store) Set(path string, value any, params Params) error {
	return self.doSet(path, value, MessageSet, params)
}

// Push appends value to the ordered sequence at path, kind `push`.
// Fails with TypeError if the leaf is not a sequence. If
// params["limit"] is a positive number, the sequence is trimmed from
// the head down to that length after the push.
func (self *Store) Push(path string, value any, params Params) error {
	return self.doSet(path, value, MessagePush, params)
}

func (self *Store) doSet(path string, value any, kind MessageKind, params Params) error {
	if !validatePath(path) {
		return newErr(KindInvalidArgument, "set", path, fmt.Errorf("invalid path"))
	}

	if self.shadowsMount(path) {
		return newErr(KindConflictingMount, "set", path, nil)
	}

	remote, _, residual, ok := self.mountResolve(path)
	if ok {
		self.transmit(Message{
			Kind:   kind,
			Path:   residual,
			Value:  value,
			Params: params,
		}, remote)
		return nil
	}

	if err := self.applyLocal(path, value, kind, params); err != nil {
		return err
	}

	self.dispatchLocal(path, self.readForDispatch(path))
	return nil
}

// shadowsMount reports whether writing at path would overwrite or
// shadow an attached mount: either path is itself a mount namespace, or
// some mount namespace is beneath path.
func (self *Store) shadowsMount(path string) bool {
	for ns := range self.namespaceToRemote {
		if IsBeneath(ns, path) {
			return true
		}
	}
	return false
}

func (self *Store) applyLocal(path string, value any, kind MessageKind, params Params) error {
	if path == "" {
		if kind == MessagePush {
			return newErr(KindTypeError, "push", path, fmt.Errorf("root is not a sequence"))
		}
		m, ok := value.(map[string]any)
		if !ok {
			return newErr(KindTypeError, "set", path, fmt.Errorf("root value must be a mapping"))
		}
		self.tree = fromValue(m)
		return nil
	}

	segments := Split(path)
	parent := self.tree
	for _, seg := range segments[:len(segments)-1] {
		next, ok := parent.children[seg]
		if !ok || next.kind != nodeMap {
			next = newMapNode()
			parent.children[seg] = next
		}
		parent = next
	}
	leafKey := segments[len(segments)-1]

	if kind == MessagePush {
		existing, ok := parent.children[leafKey]
		if !ok {
			existing = newSeqNode()
			parent.children[leafKey] = existing
		}
		if existing.kind != nodeSeq {
			return newErr(KindTypeError, "push", path, fmt.Errorf("leaf is not a sequence"))
		}
		existing.items = append(existing.items, fromValue(value))
		if limit, ok := positiveLimit(params); ok {
			for len(existing.items) > limit {
				existing.items = existing.items[1:]
			}
		}
		return nil
	}

	if value == nil {
		delete(parent.children, leafKey)
		return nil
	}
	parent.children[leafKey] = fromValue(value)
	return nil
}

func positiveLimit(params Params) (int, bool) {
	if params == nil {
		return 0, false
	}
	raw, ok := params["limit"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, 0 < v
	case int64:
		return int(v), 0 < v
	case float64:
		return int(v), 0 < v
	default:
		return 0, false
	}
}

// readForDispatch re-reads the written path as a plain value for
// delivery to subscription callbacks, so callbacks never see internal
// node pointers.
func (self *Store) readForDispatch(path string) any {
	res := resolve(self.tree, path)
	if !res.found || res.remaining != "" {
		return nil
	}
	return res.node.toValue(-1)
}

// dispatchLocal delivers value to every subscription whose local path
// is ancestor-or-equal to path, respecting each link's throttle.
func (self *Store) dispatchLocal(path string, value any) {
	for _, sub := range self.subscriptions {
		if !IsBeneath(path, sub.Path) {
			continue
		}
		if !sub.shouldDeliver() {
			continue
		}
		callback := sub.Callback
		HandleError(func() { callback(path, value) })
	}
}
