// Package relay mirrors game events onto NATS subjects so external tools
// can watch a running client.
package relay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/willeq/willeq/engine/events"
)

// Publisher sends one message. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Message is the JSON body published for each event.
type Message struct {
	Type    string      `json:"type"`
	Session string      `json:"session"`
	Data    events.Data `json:"data"`
}

// Relay publishes every bus event to <prefix>.<event_name>.
type Relay struct {
	pub     Publisher
	prefix  string
	session string
	log     *zap.Logger

	bus *events.Bus
	sub events.Handle

	published int
	failed    int
}

func New(pub Publisher, prefix, session string, log *zap.Logger) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{pub: pub, prefix: prefix, session: session, log: log}
}

// Dial connects to a NATS server, logging disconnects and reconnects.
func Dial(url string, log *zap.Logger) (*nats.Conn, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := nats.Connect(url,
		nats.Name("willeq"),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("relay disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("relay reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats %s: %w", url, err)
	}
	return conn, nil
}

// Subject is the subject events of type t are published on.
func (r *Relay) Subject(t events.Type) string {
	if r.prefix == "" {
		return t.String()
	}
	return r.prefix + "." + t.String()
}

// Attach starts relaying events from bus.
func (r *Relay) Attach(bus *events.Bus) {
	r.Detach()
	r.bus = bus
	r.sub = bus.Subscribe(r.forward)
}

// Detach stops relaying.
func (r *Relay) Detach() {
	if r.bus != nil {
		r.bus.Unsubscribe(r.sub)
		r.bus = nil
	}
}

// Stats reports how many events were published and how many failed.
func (r *Relay) Stats() (published, failed int) { return r.published, r.failed }

// forward never fails the publisher of the event; errors are logged.
func (r *Relay) forward(ev events.GameEvent) {
	body, err := json.Marshal(Message{Type: ev.Type.String(), Session: r.session, Data: ev.Data})
	if err != nil {
		r.failed++
		r.log.Warn("encode event", zap.Stringer("type", ev.Type), zap.Error(err))
		return
	}
	if err := r.pub.Publish(r.Subject(ev.Type), body); err != nil {
		r.failed++
		r.log.Debug("publish event", zap.Stringer("type", ev.Type), zap.Error(err))
		return
	}
	r.published++
}
