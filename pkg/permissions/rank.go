// Package permissions compares members of a guild by the position of their highest role.
package permissions

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

var (
	// ErrNotMember is returned when a user is nil or not a member of the guild being compared in.
	ErrNotMember = errors.New("specified users cannot be nil and must be a member of the target guild")

	// ErrGuildMismatch is returned when two members belong to different guilds.
	ErrGuildMismatch = errors.New("members must belong to the same guild")
)

// IsHigherRankedThan reports whether user a holds a strictly higher role than user b in guild.
// Both users must be members of the guild.
func IsHigherRankedThan(a, b *discordgo.User, guild *discordgo.Guild) (bool, error) {
	if guild == nil {
		return false, fmt.Errorf("guild is nil: %w", ErrNotMember)
	}

	memberA := findMember(guild, a)
	memberB := findMember(guild, b)
	if memberA == nil || memberB == nil {
		return false, ErrNotMember
	}

	return IsMemberHigherRankedThan(memberA, memberB, guild.Roles)
}

// IsMemberHigherRankedThan reports whether member a holds a strictly higher role than member b. Members
// with equal highest roles are not ranked against each other.
func IsMemberHigherRankedThan(a, b *discordgo.Member, roles []*discordgo.Role) (bool, error) {
	if a == nil || b == nil {
		return false, ErrNotMember
	}

	if a.GuildID != b.GuildID {
		return false, ErrGuildMismatch
	}

	return HighestRolePosition(a, roles) > HighestRolePosition(b, roles), nil
}

// IsHigherThan reports whether role a is strictly above role b in the role hierarchy.
func IsHigherThan(a, b *discordgo.Role) bool {
	return a.Position > b.Position
}

// HighestRolePosition returns the highest position of the member's roles. Every member implicitly
// holds @everyone, which sits at position 0.
func HighestRolePosition(m *discordgo.Member, roles []*discordgo.Role) int {
	positions := make(map[string]int, len(roles))
	for _, r := range roles {
		if r != nil {
			positions[r.ID] = r.Position
		}
	}

	highest := 0
	for _, id := range m.Roles {
		if pos, ok := positions[id]; ok && pos > highest {
			highest = pos
		}
	}
	return highest
}

// HighestRole returns the member's highest role, or nil if the member holds none of the given roles.
func HighestRole(m *discordgo.Member, roles []*discordgo.Role) *discordgo.Role {
	var highest *discordgo.Role
	for _, r := range roles {
		if r == nil || !hasRole(m, r.ID) {
			continue
		}
		if highest == nil || IsHigherThan(r, highest) {
			highest = r
		}
	}
	return highest
}

func findMember(guild *discordgo.Guild, u *discordgo.User) *discordgo.Member {
	if u == nil {
		return nil
	}
	for _, m := range guild.Members {
		if m != nil && m.User != nil && m.User.ID == u.ID {
			if m.GuildID == "" {
				// Members delivered with the guild payload do not carry the guild ID.
				cp := *m
				cp.GuildID = guild.ID
				return &cp
			}
			return m
		}
	}
	return nil
}

func hasRole(m *discordgo.Member, roleID string) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}
