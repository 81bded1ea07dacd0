package services

import (
	"testing"
	"time"

	"github.com/kovaikural/kural/models"
)

func TestHubDeliversToSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(7)
	defer cancel()

	hub.Publish(7, Event{Name: "notification", Data: &models.Notification{ID: 1, RecipientID: 7}})

	select {
	case ev := <-ch:
		if ev.Data.ID != 1 {
			t.Fatalf("expected notification 1, got %d", ev.Data.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHubIgnoresOtherUsers(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(7)
	defer cancel()

	hub.Publish(8, Event{Name: "notification", Data: &models.Notification{ID: 2, RecipientID: 8}})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event for other user: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubMultipleSubscriptions(t *testing.T) {
	hub := NewHub()
	ch1, cancel1 := hub.Subscribe(7)
	ch2, cancel2 := hub.Subscribe(7)
	defer cancel1()
	defer cancel2()

	if n := hub.SubscriberCount(7); n != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", n)
	}

	hub.Publish(7, Event{Name: "notification", Data: &models.Notification{ID: 3}})
	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Data.ID != 3 {
				t.Fatalf("subscriber %d: wrong event %d", i, ev.Data.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: no event", i)
		}
	}
}

func TestHubCancelIsIdempotent(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe(7)
	cancel()
	cancel()
	if n := hub.SubscriberCount(7); n != 0 {
		t.Fatalf("expected 0 subscriptions after cancel, got %d", n)
	}
	// Publish to a user with no subscribers must not panic or block.
	hub.Publish(7, Event{Name: "notification", Data: &models.Notification{ID: 4}})
}

func TestHubNonBlockingPublish(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe(7)
	defer cancel()

	// Channel buffer is 16; publishing more must not block the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.Publish(7, Event{Name: "notification", Data: &models.Notification{ID: uint(i)}})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow consumer")
	}
}
