package relay

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/engine/events"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix string
		typ    events.Type
		want   string
	}{
		{"willeq", events.ChatMessage, "willeq.chat_message"},
		{"bots.alpha", events.CombatEvent, "bots.alpha.combat_event"},
		{"", events.ZoneChanged, "zone_changed"},
	}
	for _, tt := range tests {
		r := New(&fakePublisher{}, tt.prefix, "s", nil)
		testutil.AssertEqual(t, tt.want, r.Subject(tt.typ), tt.want)
	}
}

func TestRelay_PublishesEvents(t *testing.T) {
	pub := &fakePublisher{}
	bus := events.NewBus()
	r := New(pub, "willeq", "session-1", nil)
	r.Attach(bus)

	bus.PublishData(events.ChatMessage, events.ChatMessageData{Sender: "Bob", Message: "hi", ChannelName: "say"})
	bus.PublishData(events.TargetChanged, events.TargetChangedData{SpawnID: 10, Name: "a_rat00"})

	testutil.AssertEqual(t, "messages", len(pub.msgs), 2)
	testutil.AssertEqual(t, "subject", pub.msgs[0].subject, "willeq.chat_message")

	var got struct {
		Type    string                 `json:"type"`
		Session string                 `json:"session"`
		Data    events.ChatMessageData `json:"data"`
	}
	if err := json.Unmarshal(pub.msgs[0].data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	testutil.AssertEqual(t, "type", got.Type, "chat_message")
	testutil.AssertEqual(t, "session", got.Session, "session-1")
	testutil.AssertEqual(t, "data", got.Data, events.ChatMessageData{Sender: "Bob", Message: "hi", ChannelName: "say"})

	published, failed := r.Stats()
	testutil.AssertEqual(t, "published", published, 2)
	testutil.AssertEqual(t, "failed", failed, 0)
}

func TestRelay_Detach(t *testing.T) {
	pub := &fakePublisher{}
	bus := events.NewBus()
	r := New(pub, "willeq", "s", nil)
	r.Attach(bus)
	r.Detach()

	bus.PublishData(events.SystemMessage, events.ChatMessageData{Message: "quiet"})
	testutil.AssertEqual(t, "messages", len(pub.msgs), 0)
	testutil.AssertEqual(t, "subscriptions", bus.Len(), 0)
}

func TestRelay_PublishErrorsAreCounted(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	bus := events.NewBus()
	r := New(pub, "willeq", "s", nil)
	r.Attach(bus)

	bus.PublishData(events.SystemMessage, events.ChatMessageData{Message: "lost"})
	published, failed := r.Stats()
	testutil.AssertEqual(t, "published", published, 0)
	testutil.AssertEqual(t, "failed", failed, 1)
}
