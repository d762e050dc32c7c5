package main

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
)

const (
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
	colorBlue  = 0x3498DB
)

// missingUser is shown in place of a ticket creator who has left the guild.
func missingUser(userID string) string {
	return fmt.Sprintf("Missing User [%s]", userID)
}

// voteSummary renders the vote counts of a ticket.
func voteSummary(t *entities.Ticket) string {
	return fmt.Sprintf("^ [%d] v [%d]", len(t.Upvotes), len(t.Downvotes))
}

func ticketDescription(t *entities.Ticket, by string) string {
	return fmt.Sprintf("Ticket By: %s\nMessage: %s\n\n%s\nID: %d", by, t.Message, voteSummary(t), t.ID)
}

// solvedEmbed announces a change of the solved status of a ticket.
func solvedEmbed(t *entities.Ticket, by string) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Solved: %t", t.Solved),
		Description: ticketDescription(t, by),
		Color:       colorRed,
	}
	if t.Solved {
		e.Color = colorGreen
	}
	if t.SolvedMessage != "" {
		e.Fields = []*discordgo.MessageEmbedField{{Name: "Reason", Value: t.SolvedMessage}}
	}
	return e
}

// ticketEmbed shows a ticket with its votes.
func ticketEmbed(t *entities.Ticket, by string) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Ticket #%d", t.ID),
		Description: ticketDescription(t, by),
		Color:       colorBlue,
	}
	if t.Solved {
		e.Color = colorGreen
		e.Title += " (solved)"
	}
	return e
}

// voteComponents are the vote buttons attached to a ticket message.
func voteComponents(ticketID int) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    UpvoteEmoji + " Upvote",
					Style:    discordgo.SuccessButton,
					CustomID: buttonID(UpvoteButtonID, ticketID),
				},
				discordgo.Button{
					Label:    DownvoteEmoji + " Downvote",
					Style:    discordgo.DangerButton,
					CustomID: buttonID(DownvoteButtonID, ticketID),
				},
			},
		},
	}
}

// allowedRolesReply lists the names of the allowed roles. Roles that no longer exist are left out.
func allowedRolesReply(roleIDs []string, roles []*discordgo.Role) string {
	byID := make(map[string]string, len(roles))
	for _, r := range roles {
		if r != nil {
			byID[r.ID] = r.Name
		}
	}

	names := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return "Allowed Roles:\n" + strings.Join(names, "\n")
}

func findRole(roles []*discordgo.Role, roleID string) *discordgo.Role {
	for _, r := range roles {
		if r != nil && r.ID == roleID {
			return r
		}
	}
	return nil
}
