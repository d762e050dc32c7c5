package entities

import (
	"github.com/Jacobbrewer1/lithium/pkg/custom"
)

// GuildConfig is the configuration document for a guild. There is exactly one per guild the bot is in.
type GuildConfig struct {
	// ID is the ID of the guild. This is also the document key.
	ID string `json:"id" bson:"_id"`

	// Ticketing is the ticketing configuration.
	Ticketing TicketSettings `json:"ticketing" bson:"ticketing"`

	// Tickets are the tickets created in the guild.
	Tickets []*Ticket `json:"tickets" bson:"tickets"`

	// Version is incremented on every save. A save only succeeds against the version it was loaded at.
	Version int64 `json:"version" bson:"version"`

	// UpdatedAt is the time of the last save.
	UpdatedAt custom.Datetime `json:"updated_at" bson:"updated_at"`
}

// NewGuildConfig creates the default configuration for a guild.
func NewGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		ID: guildID,
		Ticketing: TicketSettings{
			UseTicketing:         false,
			AllowAnyUserToCreate: true,
			AllowedCreationRoles: make([]string, 0),
		},
		Tickets: make([]*Ticket, 0),
	}
}

// Ticket returns the ticket with the given ID, or nil.
func (g *GuildConfig) Ticket(id int) *Ticket {
	for _, t := range g.Tickets {
		if t != nil && t.ID == id {
			return t
		}
	}
	return nil
}

// NextTicketID returns the ID the next created ticket should take.
func (g *GuildConfig) NextTicketID() int {
	highest := 0
	for _, t := range g.Tickets {
		if t != nil && t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}
