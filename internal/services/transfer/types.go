package transfer

import "time"

// Request is one transfer order: move Amount from the source account to
// the destination account. Not persisted.
type Request struct {
	SourceID      uint
	DestinationID uint
	Amount        float64
}

// Receipt confirms a committed transfer.
type Receipt struct {
	Reference     string    `json:"reference"`
	SourceID      uint      `json:"source_id"`
	DestinationID uint      `json:"destination_id"`
	Amount        float64   `json:"amount"`
	CompletedAt   time.Time `json:"completed_at"`
}
