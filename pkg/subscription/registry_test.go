package subscription

import (
	"sync"
	"testing"

	"github.com/lip-protocol/lip-go/pkg/wire"
)

func TestDispatchOrder(t *testing.T) {
	r := NewRegistry()

	var order []int
	r.Subscribe(func(wire.Message) { order = append(order, 1) })
	r.Subscribe(func(wire.Message) { order = append(order, 2) })
	r.Subscribe(func(wire.Message) { order = append(order, 3) })

	r.Dispatch(wire.Message{})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("dispatch order = %v, want [1 2 3]", order)
	}
}

func TestDuplicateObserverReceivesTwice(t *testing.T) {
	r := NewRegistry()

	count := 0
	fn := func(wire.Message) { count++ }

	r.Subscribe(fn)
	unsub := r.Subscribe(fn)

	r.Dispatch(wire.Message{})
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	// Removing one duplicate leaves the other registered
	unsub()
	r.Dispatch(wire.Message{})
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	r := NewRegistry()

	unsub := r.Subscribe(func(wire.Message) {})
	r.Subscribe(func(wire.Message) {})

	unsub()
	unsub()

	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	r := NewRegistry()

	var selfCalls, otherCalls int
	var unsub UnsubscribeFunc
	unsub = r.Subscribe(func(wire.Message) {
		selfCalls++
		unsub()
	})
	r.Subscribe(func(wire.Message) { otherCalls++ })

	r.Dispatch(wire.Message{})
	r.Dispatch(wire.Message{})

	if selfCalls != 1 {
		t.Errorf("self-unsubscribing observer called %d times, want 1", selfCalls)
	}
	if otherCalls != 2 {
		t.Errorf("remaining observer called %d times, want 2", otherCalls)
	}
}

func TestObserverPanicIsolated(t *testing.T) {
	r := NewRegistry()

	var recovered any
	r.OnObserverFailure(func(v any) { recovered = v })

	delivered := false
	r.Subscribe(func(wire.Message) { panic("observer failure") })
	r.Subscribe(func(wire.Message) { delivered = true })

	r.Dispatch(wire.Message{})

	if !delivered {
		t.Error("panic in first observer prevented delivery to second")
	}
	if recovered != "observer failure" {
		t.Errorf("recovered = %v, want observer failure", recovered)
	}
}

func TestConcurrentSubscribeDispatch(t *testing.T) {
	r := NewRegistry()

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := r.Subscribe(func(wire.Message) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			r.Dispatch(wire.Message{})
			unsub()
		}()
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("Len = %d after all unsubscribed, want 0", r.Len())
	}
}
