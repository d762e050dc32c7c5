package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
)

const (
	// ticketManageCmdName is the command for managing the ticketing system.
	ticketManageCmdName = "ticketmanage"

	toggleCmdName         = "toggle"
	setChannelCmdName     = "setchannel"
	toggleAllowAllCmdName = "toggleallowall"
	allowRoleCmdName      = "allowrole"
	addCmdName            = "add"
	removeCmdName         = "remove"
	toggleSolvedCmdName   = "togglesolved"

	// ticketCmdName is the command for creating and voting on tickets.
	ticketCmdName = "ticket"

	createCmdName   = "create"
	upvoteCmdName   = "upvote"
	downvoteCmdName = "downvote"

	channelOptionName = "channel"
	roleOptionName    = "role"
	idOptionName      = "id"
	reasonOptionName  = "reason"
	messageOptionName = "message"
)

const (
	// UpvoteButtonID is the ID prefix for the upvote button of a ticket.
	UpvoteButtonID = "ticket_upvote"

	// DownvoteButtonID is the ID prefix for the downvote button of a ticket.
	DownvoteButtonID = "ticket_downvote"

	// UpvoteEmoji is the emoji of the upvote button. (Up arrow)
	UpvoteEmoji = "⬆️"

	// DownvoteEmoji is the emoji of the downvote button. (Down arrow)
	DownvoteEmoji = "⬇️"
)

var (
	manageServerPermission int64 = discordgo.PermissionManageServer

	dmPermission = false

	minTicketID = 1.0
)

func ticketIDOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        idOptionName,
		Type:        discordgo.ApplicationCommandOptionInteger,
		Description: description,
		Required:    true,
		MinValue:    &minTicketID,
	}
}

func roleOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        roleOptionName,
		Type:        discordgo.ApplicationCommandOptionRole,
		Description: description,
	}
}

var (
	// ticketManageCmd is the command for managing the ticketing system of a guild.
	ticketManageCmd = &discordgo.ApplicationCommand{
		Name:                     ticketManageCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Manage the ticketing system of this server.",
		DefaultMemberPermissions: &manageServerPermission,
		DMPermission:             &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        toggleCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Toggle the ticketing system.",
			},
			{
				Name:        setChannelCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the channel ticket updates are logged in.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:         channelOptionName,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The channel to log ticket updates in. Defaults to this channel.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Name:        toggleAllowAllCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Toggle the ability to let any user create a ticket.",
			},
			{
				Name:        allowRoleCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Description: "Manage the roles allowed to create tickets.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        addCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Add a role to the ticket creation allowed list.",
						Options:     []*discordgo.ApplicationCommandOption{roleOption("The role to allow.")},
					},
					{
						Name:        removeCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Remove a role from the ticket creation allowed list.",
						Options:     []*discordgo.ApplicationCommandOption{roleOption("The role to disallow.")},
					},
				},
			},
			{
				Name:        toggleSolvedCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Toggle the solved status of a ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					ticketIDOption("The ID of the ticket."),
					{
						Name:        reasonOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "Why the ticket is solved.",
					},
				},
			},
		},
	}

	// ticketCmd is the command for creating and voting on tickets.
	ticketCmd = &discordgo.ApplicationCommand{
		Name:         ticketCmdName,
		Type:         discordgo.ChatApplicationCommand,
		Description:  "Create and vote on tickets.",
		DMPermission: &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        createCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Create a ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        messageOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "What the ticket is about.",
						Required:    true,
					},
				},
			},
			{
				Name:        upvoteCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Toggle your upvote on a ticket.",
				Options:     []*discordgo.ApplicationCommandOption{ticketIDOption("The ID of the ticket.")},
			},
			{
				Name:        downvoteCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Toggle your downvote on a ticket.",
				Options:     []*discordgo.ApplicationCommandOption{ticketIDOption("The ID of the ticket.")},
			},
		},
	}

	// commands are registered in every guild the bot joins.
	commands = []*discordgo.ApplicationCommand{
		ticketManageCmd,
		ticketCmd,
	}
)

// buttonID builds the custom ID of a ticket button.
func buttonID(prefix string, ticketID int) string {
	return prefix + buttonIDSeparator + strconv.Itoa(ticketID)
}

// parseButtonTicketID extracts the ticket ID from the custom ID of a ticket button.
func parseButtonTicketID(customID string) (int, error) {
	_, arg, ok := strings.Cut(customID, buttonIDSeparator)
	if !ok {
		return 0, fmt.Errorf("button %q has no ticket id", customID)
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("button %q has an invalid ticket id: %w", customID, err)
	}
	return id, nil
}
