package entangld

import (
	"testing"

	assert "github.com/go-playground/assert/v2"
)

func TestCallbackListAddGetRemove(t *testing.T) {
	list := NewCallbackList[func() int]()

	id1 := list.Add(func() int { return 1 })
	id2 := list.Add(func() int { return 2 })

	got := list.Get()
	assert.Equal(t, 2, len(got))
	assert.Equal(t, 1, got[0]())
	assert.Equal(t, 2, got[1]())

	list.Remove(id1)
	got = list.Get()
	assert.Equal(t, 1, len(got))
	assert.Equal(t, 2, got[0]())

	list.Remove(id2)
	assert.Equal(t, 0, len(list.Get()))
}

func TestCallbackListRemoveUnknownIdIsNoop(t *testing.T) {
	list := NewCallbackList[func()]()
	list.Add(func() {})
	list.Remove(999)
	assert.Equal(t, 1, len(list.Get()))
}

func TestMonitorNotifyAllWakesWaiters(t *testing.T) {
	m := NewMonitor()
	ch := m.NotifyChannel()

	done := make(chan struct{})
	go func() {
		<-ch
		close(done)
	}()

	m.NotifyAll()
	<-done
}

func TestHandleErrorRecoversPanic(t *testing.T) {
	ran := false
	HandleError(func() {
		defer func() { ran = true }()
		panic("boom")
	})
	assert.Equal(t, true, ran)
}
