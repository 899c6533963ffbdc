package entangld

// testRemote is the opaque remote handle used across this package's
// tests: a pointer identifying the peer Store, mirroring how a real
// transport would hand the core a socket or channel identity.
type testRemote struct {
	name  string
	store *Store
}

// newTestRemote gives store a fixed identity and wires its Transmit so
// every outgoing message reaches the target remote's Receive tagged with
// that identity as the sender. Independent per store, so any number of
// stores can be networked by calling this once per store.
func newTestRemote(name string, store *Store) *testRemote {
	handle := &testRemote{name: name, store: store}
	store.Transmit(func(msg Message, remote RemoteHandle) {
		r := remote.(*testRemote)
		r.store.Receive(msg, handle)
	})
	return handle
}

// wireStores is the two-store convenience form of newTestRemote — the
// minimal in-memory transport these tests need, since sockets and
// serialization aren't this package's concern.
func wireStores(aName string, a *Store, bName string, b *Store) (aHandle *testRemote, bHandle *testRemote) {
	return newTestRemote(aName, a), newTestRemote(bName, b)
}
