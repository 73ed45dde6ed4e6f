package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterRelaysToEverySubscriber(t *testing.T) {
	b := NewBroadcaster[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Broadcast(ctx)

	t1, ch1 := b.Subscribe()
	t2, ch2 := b.Subscribe()
	defer b.Unsubscribe(t1)
	defer b.Unsubscribe(t2)

	go b.Write(7)

	for _, ch := range []<-chan int{ch1, ch2} {
		select {
		case v := <-ch:
			assert.Equal(t, 7, v)
		case <-time.After(time.Second):
			t.Fatal("broadcast never arrived")
		}
	}
	assert.Equal(t, 7, b.Get())
}

func TestBroadcasterUnsubscribeClosesChan(t *testing.T) {
	b := NewBroadcaster[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Broadcast(ctx)

	token, ch := b.Subscribe()
	b.Unsubscribe(token)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestStateMonitorWakesWaiters(t *testing.T) {
	m := NewStateMonitor[bool](false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Broadcast(ctx)

	assert.False(t, m.Get())

	got := make(chan bool, 1)
	ready := make(chan struct{})
	go func() {
		close(ready)
		got <- m.WaitForStateChange()
	}()
	<-ready
	time.Sleep(10 * time.Millisecond) // let the waiter park on the cond

	m.WriteToChan(true)

	select {
	case v := <-got:
		require.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("waiter never woke")
	}
	assert.True(t, m.Get())
}
