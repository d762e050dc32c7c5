package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/messages"
)

func respondSlashError(a IApp, i *discordgo.InteractionCreate) error {
	return respondSlashEphemeral(a, i, messages.ErrUserErrorProcessing)
}

func respondSlashEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondSlash(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

func respondSlashEmbed(a IApp, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// interactionUser returns the user that triggered the interaction, in a guild or a direct message.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if u := interactionUser(i); u != nil {
		return u.ID
	}
	return ""
}

// canManageGuild reports whether the member may change the bot's settings.
func canManageGuild(m *discordgo.Member) bool {
	if m == nil {
		return false
	}
	return m.Permissions&discordgo.PermissionAdministrator != 0 ||
		m.Permissions&discordgo.PermissionManageServer != 0
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	om := make(optionMap, len(options))
	for _, opt := range options {
		om[opt.Name] = opt
	}
	return om
}

// guildRoles gets the roles of a guild, from the state cache when possible.
func guildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if g, err := s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g.Roles, nil
	}

	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild roles: %w", err)
	}
	return roles, nil
}

// guildOwnerID returns the ID of the guild owner, or an empty string if the guild cannot be loaded.
func guildOwnerID(s *discordgo.Session, guildID string) string {
	if g, err := s.State.Guild(guildID); err == nil {
		return g.OwnerID
	}
	if g, err := s.Guild(guildID); err == nil {
		return g.OwnerID
	}
	return ""
}

// guildMember gets a member of a guild. Returns nil without an error if the user is not a member.
func guildMember(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if m, err := s.State.Member(guildID, userID); err == nil {
		return m, nil
	}

	m, err := s.GuildMember(guildID, userID)
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting guild member: %w", err)
	}
	return m, nil
}

// rankingGuild builds a guild holding the roles and the given users as members, as needed to compare
// member ranks. Users that are not members of the guild are left out.
func rankingGuild(s *discordgo.Session, guildID string, userIDs ...string) (*discordgo.Guild, error) {
	roles, err := guildRoles(s, guildID)
	if err != nil {
		return nil, err
	}

	g := &discordgo.Guild{
		ID:    guildID,
		Roles: roles,
	}
	for _, id := range userIDs {
		m, err := guildMember(s, guildID, id)
		if err != nil {
			return nil, err
		} else if m == nil {
			continue
		}
		g.Members = append(g.Members, m)
	}
	return g, nil
}
