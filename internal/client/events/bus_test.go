package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversInRegistrationOrder(t *testing.T) {
	b := New[int]()
	var got []string

	b.Subscribe(func(v int) { got = append(got, "first") })
	b.Subscribe(func(v int) { got = append(got, "second") })
	b.Subscribe(func(v int) { got = append(got, "third") })

	b.Publish(1)
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New[int]()
	var a, c int

	ha := b.Subscribe(func(v int) { a += v })
	b.Subscribe(func(v int) { c += v })

	b.Publish(1)
	b.Unsubscribe(ha)
	b.Unsubscribe(ha)
	b.Unsubscribe("unknown")
	b.Publish(1)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1, b.Len())
}

func TestBus_ListenerMayUnsubscribeLaterListener(t *testing.T) {
	b := New[int]()
	var second Handle
	called := false

	b.Subscribe(func(int) { b.Unsubscribe(second) })
	second = b.Subscribe(func(int) { called = true })

	b.Publish(1)
	assert.False(t, called)
}

func TestBus_ListenerMayPublish(t *testing.T) {
	b := New[int]()
	var seen []int

	b.Subscribe(func(v int) {
		seen = append(seen, v)
		if v == 1 {
			b.Publish(2)
		}
	})

	b.Publish(1)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestBus_ZeroValueAndClose(t *testing.T) {
	var b Bus[Event]
	n := 0
	b.Subscribe(func(Event) { n++ })
	b.Publish(Event{Kind: KindActivityObserved})

	b.Close()
	b.Close()
	b.Subscribe(func(Event) { n++ })
	b.Publish(Event{Kind: KindActivityObserved})

	assert.Equal(t, 1, n)
	assert.Equal(t, 0, b.Len())
}
