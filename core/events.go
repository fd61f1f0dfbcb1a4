package core

import (
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind identifies a domain event.
type EventKind string

const (
	// EventBidPlaced: a bid was accepted and is now the leading bid.
	EventBidPlaced EventKind = "bid_placed"
	// EventBidRefunded: a superseded leader had its escrowed bid returned.
	EventBidRefunded EventKind = "bid_refunded"
)

// Event is a domain event emitted by the BidProcessor after a successful
// state change.
type Event struct {
	ID      string
	Kind    EventKind
	Subject Identity
	Window  uint64
	// Account is the new leader for bid_placed, the refunded bidder for
	// bid_refunded.
	Account Identity
	Amount  decimal.Decimal
}

// EventSink consumes domain events. Sinks must not call back into the
// auction.
type EventSink interface {
	Publish(ev Event)
}

func newEvent(kind EventKind, subject Identity, window uint64, account Identity, amount decimal.Decimal) Event {
	return Event{
		ID:      uuid.NewString(),
		Kind:    kind,
		Subject: subject,
		Window:  window,
		Account: account,
		Amount:  amount,
	}
}

// LogSink writes events to the process log.
type LogSink struct{}

func (LogSink) Publish(ev Event) {
	log.Printf("INFO: event %s: subject=%s window=%d account=%s amount=%s id=%s",
		ev.Kind, ev.Subject, ev.Window, ev.Account, ev.Amount, ev.ID)
}

// FanOut returns a sink that publishes to every given sink in order.
func FanOut(sinks ...EventSink) EventSink {
	return fanOutSink(sinks)
}

type fanOutSink []EventSink

func (s fanOutSink) Publish(ev Event) {
	for _, sink := range s {
		sink.Publish(ev)
	}
}
