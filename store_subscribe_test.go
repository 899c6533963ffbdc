package entangld

import (
	"errors"
	"testing"

	assert "github.com/go-playground/assert/v2"
)

func TestSubscribeRejectsNilCallback(t *testing.T) {
	s := NewStore()
	_, err := s.Subscribe("a.b", nil, 1)
	assert.Equal(t, true, errors.Is(err, ErrInvalidArgument))
}

func TestSubscribeEmitsSubscriptionEvent(t *testing.T) {
	s := NewStore()
	var gotPath string
	var gotId CorrelationId
	cancel := s.OnSubscription(func(path string, id CorrelationId) {
		gotPath, gotId = path, id
	})
	defer cancel()

	id, err := s.Subscribe("a.b", func(string, any) {}, 1)
	assert.Equal(t, nil, err)
	assert.Equal(t, "a.b", gotPath)
	assert.Equal(t, true, id.Equal(gotId))
}

func TestSubscribedToReportsHeadOnly(t *testing.T) {
	s := NewStore()
	assert.Equal(t, false, s.SubscribedTo("a.b"))
	_, err := s.Subscribe("a.b", func(string, any) {}, 1)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, s.SubscribedTo("a.b"))
}

func TestUnsubscribeByPathStopsDelivery(t *testing.T) {
	s := NewStore()
	fired := 0
	_, err := s.Subscribe("a.b", func(string, any) { fired++ }, 1)
	assert.Equal(t, nil, err)

	n, err := s.Unsubscribe("a.b")
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, nil, s.Set("a.b", 1, nil))
	assert.Equal(t, 0, fired)
}

func TestUnsubscribeByIdStopsOnlyThatChain(t *testing.T) {
	s := NewStore()
	var fired1, fired2 int
	id1, err := s.Subscribe("a.b", func(string, any) { fired1++ }, 1)
	assert.Equal(t, nil, err)
	_, err = s.Subscribe("a.b", func(string, any) { fired2++ }, 1)
	assert.Equal(t, nil, err)

	n, err := s.Unsubscribe(id1.String())
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, nil, s.Set("a.b", 1, nil))
	assert.Equal(t, 0, fired1)
	assert.Equal(t, 1, fired2)
}

func TestUnsubscribeNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.Unsubscribe("never.subscribed")
	assert.Equal(t, true, errors.Is(err, ErrNotFound))
}

func TestUnsubscribeEmitsUnsubscriptionEvent(t *testing.T) {
	s := NewStore()
	var gotPath string
	cancel := s.OnUnsubscription(func(path string, id CorrelationId) {
		gotPath = path
	})
	defer cancel()

	_, err := s.Subscribe("a.b", func(string, any) {}, 1)
	assert.Equal(t, nil, err)
	_, err = s.Unsubscribe("a.b")
	assert.Equal(t, nil, err)
	assert.Equal(t, "a.b", gotPath)
}

func TestUnsubscribeTreeRemovesAllBeneath(t *testing.T) {
	s := NewStore()
	_, err := s.Subscribe("a.b", func(string, any) {}, 1)
	assert.Equal(t, nil, err)
	_, err = s.Subscribe("a.b.c", func(string, any) {}, 1)
	assert.Equal(t, nil, err)

	err = s.UnsubscribeTree("a")
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(s.subscriptions))
}

func TestUnsubscribeTreeFailsWithSurvivingPassThrough(t *testing.T) {
	s := NewStore()
	s.installLink("a.b", func(string, any) {}, "upstream-handle", true, NewCorrelationId(), 1)

	err := s.UnsubscribeTree("a")
	assert.Equal(t, true, errors.Is(err, ErrPartialFailure))
}

func TestThrottleFiresOnFirstAndEveryNth(t *testing.T) {
	s := NewStore()
	fired := 0
	_, err := s.Subscribe("rapid.data", func(string, any) { fired++ }, 2)
	assert.Equal(t, nil, err)

	for i := 0; i < 4; i++ {
		assert.Equal(t, nil, s.Set("rapid.data", i, nil))
	}
	assert.Equal(t, 2, fired)
}

func TestThrottleLessThanOneTreatedAsOne(t *testing.T) {
	s := NewStore()
	fired := 0
	_, err := s.Subscribe("a", func(string, any) { fired++ }, 0)
	assert.Equal(t, nil, err)

	assert.Equal(t, nil, s.Set("a", 1, nil))
	assert.Equal(t, nil, s.Set("a", 2, nil))
	assert.Equal(t, 2, fired)
}
