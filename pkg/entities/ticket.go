package entities

import (
	"slices"

	"github.com/Jacobbrewer1/lithium/pkg/custom"
)

// Ticket is a request raised by a member of a guild.
type Ticket struct {
	// ID is the number of the ticket, unique within the guild.
	ID int `json:"id" bson:"id"`

	// Message is the content of the ticket.
	Message string `json:"message" bson:"message"`

	// InitiatingUser is the ID of the user that created the ticket.
	InitiatingUser string `json:"initiating_user" bson:"initiating_user"`

	// Solved is whether the ticket has been solved.
	Solved bool `json:"solved" bson:"solved"`

	// SolvedMessage is the optional reason given when the solved status was last changed.
	SolvedMessage string `json:"solved_message,omitempty" bson:"solved_message,omitempty"`

	// Upvotes are the IDs of the users that upvoted the ticket.
	Upvotes []string `json:"upvotes" bson:"upvotes"`

	// Downvotes are the IDs of the users that downvoted the ticket.
	Downvotes []string `json:"downvotes" bson:"downvotes"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}

// NewTicket creates an open ticket.
func NewTicket(id int, userID, message string) *Ticket {
	return &Ticket{
		ID:             id,
		Message:        message,
		InitiatingUser: userID,
		Upvotes:        make([]string, 0),
		Downvotes:      make([]string, 0),
		CreatedAt:      custom.Now(),
	}
}

// ToggleSolved flips the solved flag and records the reason.
func (t *Ticket) ToggleSolved(reason string) {
	t.Solved = !t.Solved
	t.SolvedMessage = reason
}

// Upvote toggles the user's upvote, clearing any downvote.
func (t *Ticket) Upvote(userID string) {
	t.Downvotes = remove(t.Downvotes, userID)
	t.Upvotes = toggle(t.Upvotes, userID)
}

// Downvote toggles the user's downvote, clearing any upvote.
func (t *Ticket) Downvote(userID string) {
	t.Upvotes = remove(t.Upvotes, userID)
	t.Downvotes = toggle(t.Downvotes, userID)
}

func toggle(set []string, id string) []string {
	if slices.Contains(set, id) {
		return remove(set, id)
	}
	return append(set, id)
}

func remove(set []string, id string) []string {
	return slices.DeleteFunc(set, func(s string) bool {
		return s == id
	})
}
