package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversToAllSubscribers(t *testing.T) {
	b := NewBroker(nil)
	chA, unsubA := b.Subscribe()
	defer unsubA()
	chB, unsubB := b.Subscribe()
	defer unsubB()

	b.Publish(PreviewUpdate{Path: "a.pc", Version: 1, Initial: true})

	select {
	case u := <-chA:
		assert.Equal(t, "a.pc", u.Path)
	case <-time.After(time.Second):
		t.Fatal("subscriber A did not receive update")
	}
	select {
	case u := <-chB:
		assert.Equal(t, "a.pc", u.Path)
	case <-time.After(time.Second):
		t.Fatal("subscriber B did not receive update")
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(nil)
	ch, unsub := b.Subscribe()
	unsub()

	_, open := <-ch
	assert.False(t, open)
}

func TestBrokerDropsUpdateForFullSubscriberBuffer(t *testing.T) {
	b := NewBroker(nil)
	ch, unsub := b.Subscribe()
	defer unsub()

	for i := 0; i < 32; i++ {
		b.Publish(PreviewUpdate{Path: "a.pc", Version: i})
	}

	require.NotEmpty(t, ch)
	first := <-ch
	assert.Equal(t, 0, first.Version)
}

func TestBrokerUnaffectedSubscriberAfterOthersUnsubscribe(t *testing.T) {
	b := NewBroker(nil)
	ch1, unsub1 := b.Subscribe()
	ch2, unsub2 := b.Subscribe()
	defer unsub2()

	unsub1()
	b.Publish(PreviewUpdate{Path: "b.pc", Version: 1})

	select {
	case u := <-ch2:
		assert.Equal(t, "b.pc", u.Path)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive update")
	}

	_, open := <-ch1
	assert.False(t, open)
}
