package model

import "time"

// BidOutcome records how a single bid was routed.  It is written to the
// bid log after the engine has decided and is never read back into the
// engine: remaining counts live only in memory.
//
// Fields:
//
//	ID        – primary key identifier (zero until stored).
//	BidID     – UUID assigned when the bid was submitted.
//	Price     – bid price in dollars.
//	Status    – ACCEPTED or REJECTED.
//	Tier      – accepting tier name, empty when rejected.
//	Remaining – rooms left in the accepting tier after the decrement.
//	Message   – the human-readable bid log line.
//	CreatedAt – when the bid was decided.
type BidOutcome struct {
	ID        uint64    `json:"id,omitempty"`        // bid_outcomes.id
	BidID     string    `json:"bid_id"`              // bid_outcomes.bid_id
	Price     float64   `json:"price"`               // bid_outcomes.price_cents / 100
	Status    string    `json:"status"`              // bid_outcomes.status
	Tier      string    `json:"tier,omitempty"`      // bid_outcomes.tier (nullable)
	Remaining *int      `json:"remaining,omitempty"` // bid_outcomes.remaining_after (nullable)
	Message   string    `json:"message"`             // bid_outcomes.message
	CreatedAt time.Time `json:"created_at"`          // bid_outcomes.created_at
}

// Accepted reports whether a tier took the bid.
func (b BidOutcome) Accepted() bool { return b.Status == "ACCEPTED" }
