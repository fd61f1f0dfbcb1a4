package core

// Engine wires the auction components over one shared ledger and clock.
// This is the assembly the server and the host adapter operate on.
type Engine struct {
	Clock     *WindowClock
	Ledger    *Ledger
	Processor *BidProcessor
	Auth      *AuthorizationGate
	Gate      *ActionGate
}

// NewEngine assembles an auction engine. A windowSize of 0 selects
// DefaultWindowSize; events may be nil to discard events.
func NewEngine(counter CounterSource, windowSize uint64, bank SettlementBank, events EventSink) *Engine {
	clock := NewWindowClock(counter, windowSize)
	ledger := NewLedger()
	auth := NewAuthorizationGate(clock, ledger)
	return &Engine{
		Clock:     clock,
		Ledger:    ledger,
		Processor: NewBidProcessor(clock, ledger, bank, events),
		Auth:      auth,
		Gate:      NewActionGate(auth),
	}
}
