package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"github.com/Jacobbrewer1/lithium/pkg/messages"
	"github.com/Jacobbrewer1/lithium/pkg/permissions"
	"github.com/Jacobbrewer1/lithium/pkg/ticketing"
)

// ticketManageController routes the ticketmanage sub commands. Only members that can manage the guild get
// past it.
func ticketManageController(_ IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	if !canManageGuild(i.Member) {
		return replyProcessor(messages.ErrMissingPermissions), nil
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return nil, errors.New("missing sub command")
	}

	sub := opts[0]
	switch sub.Name {
	case toggleCmdName:
		return toggleTicketingCmd, nil
	case setChannelCmdName:
		return setChannelCmd(sub), nil
	case toggleAllowAllCmdName:
		return toggleAllowAllCmd, nil
	case allowRoleCmdName:
		if len(sub.Options) == 0 {
			return nil, errors.New("missing allowrole sub command")
		}
		switch action := sub.Options[0]; action.Name {
		case addCmdName:
			return allowRoleCmd(action, true), nil
		case removeCmdName:
			return allowRoleCmd(action, false), nil
		default:
			return nil, fmt.Errorf("unhandled allowrole sub command %s", action.Name)
		}
	case toggleSolvedCmdName:
		return toggleSolvedCmd(sub), nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", sub.Name)
	}
}

func toggleTicketingCmd(a IApp, i *discordgo.InteractionCreate) error {
	enabled, err := a.Tickets().ToggleUseTicketing(context.Background(), i.GuildID)
	if err != nil {
		return fmt.Errorf("error toggling ticketing: %w", err)
	}
	return respondSlash(a, i, fmt.Sprintf("Use Ticketing System: %t", enabled))
}

func setChannelCmd(sub *discordgo.ApplicationCommandInteractionDataOption) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		channelID := i.ChannelID
		if opt, ok := parseOptions(sub.Options)[channelOptionName]; ok {
			channelID = opt.ChannelValue(nil).ID
		}

		if err := a.Tickets().SetTicketChannel(context.Background(), i.GuildID, channelID); err != nil {
			return fmt.Errorf("error setting ticket channel: %w", err)
		}
		return respondSlash(a, i, fmt.Sprintf("Ticket updates will now be logged in <#%s>", channelID))
	}
}

func toggleAllowAllCmd(a IApp, i *discordgo.InteractionCreate) error {
	allowed, err := a.Tickets().ToggleAllowAnyUserToCreate(context.Background(), i.GuildID)
	if err != nil {
		return fmt.Errorf("error toggling allow all: %w", err)
	}
	return respondSlash(a, i, fmt.Sprintf("Allow any user in the server to create tickets: %t", allowed))
}

func allowRoleCmd(action *discordgo.ApplicationCommandInteractionDataOption, add bool) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		opt, ok := parseOptions(action.Options)[roleOptionName]
		if !ok {
			return respondSlashEphemeral(a, i, messages.ErrNoRole)
		}

		roles, err := guildRoles(a.Session(), i.GuildID)
		if err != nil {
			return err
		}

		role := findRole(roles, opt.RoleValue(nil, i.GuildID).ID)
		if role == nil {
			return respondSlashEphemeral(a, i, messages.ErrNoRole)
		}

		if !canManageRole(i.Member, guildOwnerID(a.Session(), i.GuildID), roles, role) {
			return respondSlashEphemeral(a, i, messages.ErrRoleTooHigh)
		}

		var allowed []string
		if add {
			allowed, err = a.Tickets().AddAllowedRole(context.Background(), i.GuildID, role.ID)
		} else {
			allowed, err = a.Tickets().RemoveAllowedRole(context.Background(), i.GuildID, role.ID)
		}
		if err != nil {
			return fmt.Errorf("error updating allowed roles: %w", err)
		}
		return respondSlash(a, i, allowedRolesReply(allowed, roles))
	}
}

// canManageRole reports whether the member may add or remove the role from the allowed list. Administrators
// and the owner may manage any role, everyone else only roles below their highest one.
func canManageRole(m *discordgo.Member, ownerID string, roles []*discordgo.Role, role *discordgo.Role) bool {
	if m == nil || role == nil {
		return false
	}
	if m.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if m.User != nil && ownerID != "" && m.User.ID == ownerID {
		return true
	}
	return permissions.HighestRolePosition(m, roles) > role.Position
}

func toggleSolvedCmd(sub *discordgo.ApplicationCommandInteractionDataOption) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		ctx := context.Background()

		om := parseOptions(sub.Options)
		idOpt, ok := om[idOptionName]
		if !ok {
			return respondSlashEphemeral(a, i, messages.ErrNoSuchTicket)
		}
		id := int(idOpt.IntValue())

		reason := ""
		if opt, ok := om[reasonOptionName]; ok {
			reason = opt.StringValue()
		}

		t, err := a.Tickets().Ticket(ctx, i.GuildID, id)
		if errors.Is(err, ticketing.ErrNoSuchTicket) {
			return respondSlashEphemeral(a, i, messages.ErrNoSuchTicket)
		} else if err != nil {
			return fmt.Errorf("error getting ticket: %w", err)
		}

		invoker := interactionUser(i)
		if invoker == nil {
			return errors.New("interaction has no user")
		}

		if t.InitiatingUser != invoker.ID {
			guild, err := rankingGuild(a.Session(), i.GuildID, invoker.ID, t.InitiatingUser)
			if err != nil {
				return err
			}

			higher, err := permissions.IsHigherRankedThan(invoker, &discordgo.User{ID: t.InitiatingUser}, guild)
			if err != nil {
				return fmt.Errorf("error comparing ranks: %w", err)
			} else if !higher {
				return respondSlashEphemeral(a, i, messages.ErrNotHigherRanked)
			}
		}

		t, err = a.Tickets().ToggleSolved(ctx, i.GuildID, id, reason)
		if errors.Is(err, ticketing.ErrNoSuchTicket) {
			return respondSlashEphemeral(a, i, messages.ErrNoSuchTicket)
		} else if err != nil {
			return fmt.Errorf("error toggling solved: %w", err)
		}

		embed := solvedEmbed(t, ticketAuthor(a, i.GuildID, t.InitiatingUser))
		if err := respondSlashEmbed(a, i, embed); err != nil {
			return err
		}

		logTicketUpdate(a, i, embed)
		return nil
	}
}

// ticketAuthor returns the name of the user that created a ticket.
func ticketAuthor(a IApp, guildID, userID string) string {
	m, err := guildMember(a.Session(), guildID, userID)
	if err != nil || m == nil || m.User == nil {
		return missingUser(userID)
	}
	return m.User.Username
}

// logTicketUpdate posts the embed to the ticket channel of the guild, unless it was already shown there.
func logTicketUpdate(a IApp, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	l := a.Log().With(slog.String(logging.KeyGuildID, i.GuildID))

	g, err := a.Tickets().Config(context.Background(), i.GuildID)
	if err != nil {
		l.Error("Error getting guild config", slog.String(logging.KeyError, err.Error()))
		return
	}

	channelID := g.Ticketing.TicketChannelID
	if channelID == "" || channelID == i.ChannelID {
		return
	}

	if _, err := a.Session().ChannelMessageSendEmbed(channelID, embed); err != nil {
		l.Error("Error logging ticket update", slog.String(logging.KeyError, err.Error()))
	}
}
