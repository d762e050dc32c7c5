package request

import "fmt"

// Message is the JSON body of a plain message response.
type Message struct {
	Message string `json:"message"`
}

// NewMessage creates a new Message, formatting it when args are given.
func NewMessage(message string, args ...any) *Message {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &Message{
		Message: message,
	}
}
