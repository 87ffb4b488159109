// Package queue defines message payloads exchanged over the message broker.
package queue

// BidDecidedEvent is published after every routed bid.  It carries the
// outcome and the inventory right after the decision so consumers can
// render the bid log without asking the engine.
type BidDecidedEvent struct {
	BidID     string         `json:"bid_id"`
	Status    string         `json:"status"`
	Tier      string         `json:"tier,omitempty"`
	Price     float64        `json:"price"`
	Remaining *int           `json:"remaining,omitempty"`
	Message   string         `json:"message"`
	Inventory map[string]int `json:"inventory"` // remaining rooms per tier name
	DecidedAt string         `json:"decided_at"`
}

// TotalRemaining sums the inventory carried by the event.
func (e BidDecidedEvent) TotalRemaining() int {
	n := 0
	for _, r := range e.Inventory {
		n += r
	}
	return n
}
