package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGuildConfig(t *testing.T) {
	g := NewGuildConfig("42")
	require.Equal(t, "42", g.ID)
	require.False(t, g.Ticketing.UseTicketing)
	require.True(t, g.Ticketing.AllowAnyUserToCreate)
	require.Empty(t, g.Ticketing.AllowedCreationRoles)
	require.Empty(t, g.Tickets)
	require.Zero(t, g.Version)
}

func TestGuildConfig_Tickets(t *testing.T) {
	g := NewGuildConfig("1")
	require.Equal(t, 1, g.NextTicketID())
	require.Nil(t, g.Ticket(1))

	g.Tickets = append(g.Tickets, NewTicket(1, "u1", "first"), NewTicket(5, "u2", "second"))
	require.Equal(t, 6, g.NextTicketID())
	require.Equal(t, "second", g.Ticket(5).Message)
	require.Nil(t, g.Ticket(2))
}

func TestTicketSettings_AllowedRoles(t *testing.T) {
	s := NewGuildConfig("1").Ticketing

	require.True(t, s.AddAllowedRole("7"))
	require.False(t, s.AddAllowedRole("7"))
	require.Equal(t, []string{"7"}, s.AllowedCreationRoles)
	require.True(t, s.HasAllowedRole("3", "7"))

	require.True(t, s.RemoveAllowedRole("7"))
	require.False(t, s.RemoveAllowedRole("7"))
	require.Empty(t, s.AllowedCreationRoles)
	require.False(t, s.HasAllowedRole("7"))
}

func TestTicketSettings_CanCreate(t *testing.T) {
	tests := []struct {
		name    string
		any     bool
		allowed []string
		roles   []string
		want    bool
	}{
		{name: "anyone", any: true, want: true},
		{name: "no roles", any: false, want: false},
		{name: "allowed role", any: false, allowed: []string{"7"}, roles: []string{"1", "7"}, want: true},
		{name: "other role", any: false, allowed: []string{"7"}, roles: []string{"1"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := TicketSettings{AllowAnyUserToCreate: tt.any, AllowedCreationRoles: tt.allowed}
			require.Equal(t, tt.want, s.CanCreate(tt.roles...))
		})
	}
}

func TestTicket_ToggleSolved(t *testing.T) {
	tk := NewTicket(1, "u", "broken")

	tk.ToggleSolved("fixed it")
	require.True(t, tk.Solved)
	require.Equal(t, "fixed it", tk.SolvedMessage)

	tk.ToggleSolved("")
	require.False(t, tk.Solved)
	require.Empty(t, tk.SolvedMessage)
}

func TestTicket_Votes(t *testing.T) {
	tk := NewTicket(1, "u", "idea")

	tk.Upvote("a")
	tk.Upvote("b")
	require.Equal(t, []string{"a", "b"}, tk.Upvotes)

	// Switching sides removes the previous vote.
	tk.Downvote("a")
	require.Equal(t, []string{"b"}, tk.Upvotes)
	require.Equal(t, []string{"a"}, tk.Downvotes)

	// Voting the same way twice retracts the vote.
	tk.Downvote("a")
	require.Empty(t, tk.Downvotes)
}
