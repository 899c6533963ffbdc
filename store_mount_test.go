package entangld

import (
	"context"
	"errors"
	"testing"

	assert "github.com/go-playground/assert/v2"
)

func TestAttachRejectsEmptyNamespaceOrNilRemote(t *testing.T) {
	s := NewStore()
	err := s.Attach("", "remote")
	assert.Equal(t, true, errors.Is(err, ErrInvalidArgument))

	err = s.Attach("ns", nil)
	assert.Equal(t, true, errors.Is(err, ErrInvalidArgument))
}

func TestAttachTwiceAtSameNamespaceFails(t *testing.T) {
	s := NewStore()
	assert.Equal(t, nil, s.Attach("child", "remoteA"))
	err := s.Attach("child", "remoteB")
	assert.Equal(t, true, errors.Is(err, ErrAlreadyAttached))
}

func TestAttachSameRemoteTwiceFails(t *testing.T) {
	s := NewStore()
	assert.Equal(t, nil, s.Attach("a", "remote"))
	err := s.Attach("b", "remote")
	assert.Equal(t, true, errors.Is(err, ErrAlreadyAttached))
}

func TestAttachInstallsEmptyPlaceholder(t *testing.T) {
	s := NewStore()
	assert.Equal(t, nil, s.Attach("child", "remote"))

	value, err := s.getLocal(context.Background(), "child", nil)
	assert.Equal(t, nil, err)
	m, ok := value.(map[string]any)
	assert.Equal(t, true, ok)
	assert.Equal(t, 0, len(m))
}

func TestDetachNamespaceRemovesMount(t *testing.T) {
	s := NewStore()
	assert.Equal(t, nil, s.Attach("child", "remote"))
	assert.Equal(t, nil, s.DetachNamespace("child"))

	_, _, _, ok := s.mountResolve("child.x")
	assert.Equal(t, false, ok)
}

func TestDetachNamespaceNotFound(t *testing.T) {
	s := NewStore()
	err := s.DetachNamespace("nope")
	assert.Equal(t, true, errors.Is(err, ErrNotFound))
}

func TestDetachRemoteResolvesItsNamespace(t *testing.T) {
	s := NewStore()
	assert.Equal(t, nil, s.Attach("child", "remote"))
	assert.Equal(t, nil, s.DetachRemote("remote"))

	_, ok := s.Namespaces()["child"]
	assert.Equal(t, false, ok)
}

func TestNamespacesSnapshotListsEveryMount(t *testing.T) {
	s := NewStore()
	assert.Equal(t, nil, s.Attach("zeta", "r1"))
	assert.Equal(t, nil, s.Attach("alpha", "r2"))

	ns := s.Namespaces()
	assert.Equal(t, 2, len(ns))
	assert.Equal(t, "r2", ns["alpha"])
	assert.Equal(t, "r1", ns["zeta"])
}

func TestAttachRehomesExistingLocalSubscription(t *testing.T) {
	s := NewStore()
	_, err := s.Subscribe("child.voltage", func(path string, value any) {}, 1)
	assert.Equal(t, nil, err)

	var sent []Message
	s.Transmit(func(msg Message, remote RemoteHandle) {
		sent = append(sent, msg)
	})

	assert.Equal(t, nil, s.Attach("child", "remote"))

	assert.Equal(t, 1, len(sent))
	assert.Equal(t, MessageSubscribe, sent[0].Kind)
	assert.Equal(t, "voltage", sent[0].Path)

	assert.Equal(t, 1, len(s.subscriptions))
	assert.Equal(t, false, s.subscriptions[0].IsTerminal())
	assert.Equal(t, "remote", s.subscriptions[0].Downstream)
}
