package domain

import "time"

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderTherapist Sender = "therapist"
	SenderAI        Sender = "ai"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderTherapist || s == SenderAI
}

// ChatMessage is one turn of a child's assistant conversation. A child's
// messages are kept in append order.
type ChatMessage struct {
	ID   string    `json:"id"`
	From Sender    `json:"from"`
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// ChatPreviewSize is how many of the latest messages a ChatSummary carries.
const ChatPreviewSize = 3

// ChatSummary is the caseload overview of one child's conversation.
type ChatSummary struct {
	Child        Child
	MessageCount int
	LastMessage  ChatMessage
	// Recent holds up to ChatPreviewSize of the latest messages, oldest first.
	Recent []ChatMessage
	// More is set when the log has messages older than Recent.
	More bool
}
