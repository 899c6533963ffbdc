package entangld

import (
	"context"
	"fmt"
)

// Receive is the message demultiplexer: the host driving a transport
// calls this for every message it decodes, with from identifying which
// attached remote it arrived from. Errors discovered here are returned
// rather than swallowed.
func (self *Store) Receive(msg Message, from RemoteHandle) error {
	receiveLog("%s %q", msg.Kind, msg.Path)
	switch msg.Kind {
	case MessageSet:
		return self.Set(msg.Path, msg.Value, msg.Params)

	case MessagePush:
		return self.Push(msg.Path, msg.Value, msg.Params)

	case MessageGet:
		return self.receiveGet(msg, from)

	case MessageValue:
		return self.receiveValue(msg)

	case MessageEvent:
		return self.receiveEvent(msg, from)

	case MessageSubscribe:
		return self.receiveSubscribe(msg, from)

	case MessageUnsubscribe:
		return self.receiveUnsubscribe(msg)

	default:
		return newErr(KindProtocolError, "receive", msg.Path, fmt.Errorf("unknown message kind %v", msg.Kind))
	}
}

func (self *Store) receiveGet(msg Message, from RemoteHandle) error {
	value, err := self.Get(context.Background(), msg.Path, msg.Param)
	if err != nil {
		return err
	}
	self.transmit(Message{
		Kind:  MessageValue,
		Path:  msg.Path,
		Value: value,
		Id:    msg.Id,
	}, from)
	return nil
}

func (self *Store) receiveValue(msg Message) error {
	future, ok := self.requests[msg.Id]
	if !ok {
		receiveLog("value for unknown request %s dropped", msg.Id)
		return nil
	}
	delete(self.requests, msg.Id)
	future.Resolve(msg.Value, nil)
	return nil
}

// receiveEvent rewrites msg.Path by prepending from's namespace, then
// dispatches to every subscription whose id matches and whose local
// path is an ancestor of the rewritten path. If nothing matches, it
// replies with an `unsubscribe` for that id — the orphan-cleanup path.
// An event from a sender that is not attached (for instance one
// detached since the chain was built) also gets that `unsubscribe`
// reply, and Receive then returns MissingContext.
func (self *Store) receiveEvent(msg Message, from RemoteHandle) error {
	if from == nil {
		return newErr(KindMissingContext, "receive", msg.Path, fmt.Errorf("event has no sender remote"))
	}
	namespace, ok := self.remoteToNamespace[from]
	if !ok {
		// e.g. the sender was detached: no link here can still be fed
		// by it, so tell it to drop the chain.
		self.transmit(Message{
			Kind: MessageUnsubscribe,
			Id:   msg.Id,
		}, from)
		return newErr(KindMissingContext, "receive", msg.Path, fmt.Errorf("sender remote is not attached"))
	}

	fullPath := msg.Path
	if namespace != "" {
		if fullPath == "" {
			fullPath = namespace
		} else {
			fullPath = namespace + "." + fullPath
		}
	}

	matched := false
	for _, sub := range self.subscriptions {
		if !sub.Id.Equal(msg.Id) {
			continue
		}
		if !IsBeneath(fullPath, sub.Path) {
			continue
		}
		matched = true
		if !sub.shouldDeliver() {
			continue
		}
		callback := sub.Callback
		HandleError(func() { callback(fullPath, msg.Value) })
	}

	if !matched {
		self.transmit(Message{
			Kind: MessageUnsubscribe,
			Id:   msg.Id,
		}, from)
	}
	return nil
}

// receiveSubscribe installs a new link whose upstream is the sender —
// see DESIGN.md for why this is upstream rather than downstream — with
// a forwarding callback that emits an `event` back to the sender
// carrying the chain id.
func (self *Store) receiveSubscribe(msg Message, from RemoteHandle) error {
	forward := func(path string, value any) {
		self.transmit(Message{
			Kind:  MessageEvent,
			Path:  path,
			Value: value,
			Id:    msg.Id,
		}, from)
	}
	self.installLink(msg.Path, forward, from, true, msg.Id, msg.Throttle)
	return nil
}

func (self *Store) receiveUnsubscribe(msg Message) error {
	var matched []*Subscription
	for _, sub := range self.subscriptions {
		if sub.Id.Equal(msg.Id) {
			matched = append(matched, sub)
		}
	}
	self.removeLinks(matched)
	return nil
}
