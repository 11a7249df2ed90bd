package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}

	want := Message{Type: "registration_confirmed", Body: []byte(`{"email":"a@b.c"}`)}
	if err := q.Publish(ctx, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-msgs:
		if got.Type != want.Type || string(got.Body) != string(want.Body) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := NewInMemory(0)
	if err := q.Publish(ctx, Message{Type: "x"}); err == nil {
		t.Error("publish on a cancelled context should fail")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: "registration_confirmed", Body: []byte("payload|with|pipes")}
	got, err := deserialize(serialize(msg))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.Type != msg.Type || string(got.Body) != string(msg.Body) {
		t.Errorf("round trip: got %+v, want %+v", got, msg)
	}
}

func TestDeserializeWithoutType(t *testing.T) {
	got, err := deserialize("bare payload")
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.Type != "" || string(got.Body) != "bare payload" {
		t.Errorf("got %+v", got)
	}
}
