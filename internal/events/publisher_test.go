package events

import (
	"context"
	"testing"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
)

type fakePublisher struct {
	PublishFn func(ctx context.Context, key string, v any) error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, v any) error {
	return f.PublishFn(ctx, key, v)
}

func (f *fakePublisher) Close() error { return nil }

func TestRoutingKey(t *testing.T) {
	tests := map[string]string{
		"appointment_created":        "appointment.created",
		"appointment_status_changed": "appointment.status_changed",
		"login":                      "login",
	}
	for in, want := range tests {
		if got := RoutingKey(in); got != want {
			t.Fatalf("RoutingKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSink_PublishesAuditEvent(t *testing.T) {
	var gotKey string
	var gotMsg Message
	pub := &fakePublisher{PublishFn: func(_ context.Context, key string, v any) error {
		gotKey = key
		gotMsg = v.(Message)
		return nil
	}}

	id := uint(12)
	err := NewSink(pub).Record(context.Background(), audit.Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &id,
		Metadata: map[string]string{"date": "2030-01-07"},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if gotKey != "appointment.created" {
		t.Fatalf("key = %q", gotKey)
	}
	if gotMsg.EntityID == nil || *gotMsg.EntityID != 12 || gotMsg.Entity != "appointment" {
		t.Fatalf("msg = %+v", gotMsg)
	}
}
