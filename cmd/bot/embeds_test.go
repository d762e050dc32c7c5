package main

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestSolvedEmbed(t *testing.T) {
	ticket := entities.NewTicket(4, "100", "The bot is down")
	ticket.Upvote("1")
	ticket.Upvote("2")
	ticket.Downvote("3")

	tests := []struct {
		name       string
		solved     bool
		reason     string
		wantTitle  string
		wantColor  int
		wantFields int
	}{
		{
			name:       "solved with reason",
			solved:     true,
			reason:     "restarted",
			wantTitle:  "Solved: true",
			wantColor:  colorGreen,
			wantFields: 1,
		},
		{
			name:      "reopened",
			wantTitle: "Solved: false",
			wantColor: colorRed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := *ticket
			tk.Solved = tt.solved
			tk.SolvedMessage = tt.reason

			e := solvedEmbed(&tk, "alice")
			require.Equal(t, tt.wantTitle, e.Title)
			require.Equal(t, tt.wantColor, e.Color)
			require.Len(t, e.Fields, tt.wantFields)
			require.Equal(t, "Ticket By: alice\nMessage: The bot is down\n\n^ [2] v [1]\nID: 4", e.Description)
		})
	}
}

func TestTicketEmbed(t *testing.T) {
	ticket := entities.NewTicket(1, "100", "Add a music command")

	e := ticketEmbed(ticket, missingUser("100"))
	require.Equal(t, "Ticket #1", e.Title)
	require.Equal(t, colorBlue, e.Color)
	require.Contains(t, e.Description, "Ticket By: Missing User [100]")

	ticket.ToggleSolved("")
	e = ticketEmbed(ticket, "bob")
	require.Equal(t, "Ticket #1 (solved)", e.Title)
	require.Equal(t, colorGreen, e.Color)
}

func TestVoteComponents(t *testing.T) {
	row, ok := voteComponents(12)[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	for i, prefix := range []string{UpvoteButtonID, DownvoteButtonID} {
		button, ok := row.Components[i].(discordgo.Button)
		require.True(t, ok)

		id, err := parseButtonTicketID(button.CustomID)
		require.NoError(t, err)
		require.Equal(t, 12, id)
		require.Equal(t, prefix+":12", button.CustomID)
	}
}

func TestParseButtonTicketID(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		want     int
		wantErr  bool
	}{
		{name: "upvote", customID: "ticket_upvote:3", want: 3},
		{name: "no id", customID: "ticket_upvote", wantErr: true},
		{name: "not a number", customID: "ticket_downvote:abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseButtonTicketID(tt.customID)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedRolesReply(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "7", Name: "Support"},
		{ID: "8", Name: "Moderators"},
	}

	require.Equal(t, "Allowed Roles:\nModerators\nSupport", allowedRolesReply([]string{"8", "7", "deleted"}, roles))
	require.Equal(t, "Allowed Roles:\n", allowedRolesReply(nil, roles))
}

func TestFindRole(t *testing.T) {
	roles := []*discordgo.Role{nil, {ID: "7", Name: "Support"}}
	require.Equal(t, "Support", findRole(roles, "7").Name)
	require.Nil(t, findRole(roles, "8"))
}
