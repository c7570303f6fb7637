package viewer

import (
	"fmt"
	"image/color"
)

// MessageType picks the color a log line is drawn in
type MessageType int

const (
	// MessageNormal is for plain status lines (gray)
	MessageNormal MessageType = iota
	// MessageEnvironment describes the map: doors, stairs, fixtures (gold)
	MessageEnvironment
	// MessageAlert is for failed actions (bright yellow)
	MessageAlert
	// MessageSystem is for generation and floor switches (purple)
	MessageSystem
)

// Message is one log line and its type
type Message struct {
	Text string
	Type MessageType
}

// Color returns the color for the message based on its type
func (m Message) Color() color.RGBA {
	switch m.Type {
	case MessageEnvironment:
		return color.RGBA{218, 165, 32, 255}
	case MessageAlert:
		return color.RGBA{255, 255, 0, 255}
	case MessageSystem:
		return color.RGBA{186, 85, 211, 255}
	default:
		return color.RGBA{200, 200, 200, 255}
	}
}

// MessageLog keeps the most recent inspector messages
type MessageLog struct {
	Messages    []Message
	MaxMessages int
}

// NewMessageLog creates a log that keeps at most max messages
func NewMessageLog(max int) *MessageLog {
	if max <= 0 {
		max = 100
	}
	return &MessageLog{MaxMessages: max}
}

// Add appends a message, dropping the oldest when full
func (ml *MessageLog) Add(t MessageType, text string) {
	ml.Messages = append(ml.Messages, Message{Text: text, Type: t})
	if len(ml.Messages) > ml.MaxMessages {
		ml.Messages = ml.Messages[len(ml.Messages)-ml.MaxMessages:]
	}
}

// Addf formats and appends a message
func (ml *MessageLog) Addf(t MessageType, format string, args ...any) {
	ml.Add(t, fmt.Sprintf(format, args...))
}

// RecentMessages returns up to n messages, newest first
func (ml *MessageLog) RecentMessages(n int) []Message {
	n = max(min(n, len(ml.Messages)), 0)
	out := make([]Message, n)
	for i := range n {
		out[i] = ml.Messages[len(ml.Messages)-1-i]
	}
	return out
}

// Clear empties the log
func (ml *MessageLog) Clear() {
	ml.Messages = nil
}
