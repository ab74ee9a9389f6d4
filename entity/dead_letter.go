package entity

import "time"

// DeadLetter is a message that exhausted its retry budget and was parked for
// operator inspection.
type DeadLetter struct {
	MessageID  string    `json:"message_id" db:"message_id"`
	Topic      string    `json:"topic" db:"topic"`
	Handler    string    `json:"handler" db:"handler"`
	Reason     string    `json:"reason" db:"reason"`
	Payload    []byte    `json:"payload" db:"payload"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}
