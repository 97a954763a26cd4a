package types

import "time"

// MaxMessageLength caps a single chat message body.
const MaxMessageLength = 500

// Message is a chat message tied to a delivery request. Transport is
// plain polling; the server only stores and lists rows.
type Message struct {
	ID        string    `db:"id" json:"id"`
	RequestID string    `db:"request_id" json:"requestId"`
	SenderID  string    `db:"sender_id" json:"senderId"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
