package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/messages"
	"github.com/Jacobbrewer1/lithium/pkg/ticketing"
)

// ticketController routes the ticket sub commands.
func ticketController(_ IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return nil, errors.New("missing sub command")
	}

	sub := opts[0]
	switch sub.Name {
	case createCmdName:
		return createTicketCmd(sub), nil
	case upvoteCmdName:
		return voteCmd(sub, true), nil
	case downvoteCmdName:
		return voteCmd(sub, false), nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", sub.Name)
	}
}

func createTicketCmd(sub *discordgo.ApplicationCommandInteractionDataOption) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		opt, ok := parseOptions(sub.Options)[messageOptionName]
		if !ok {
			return errors.New("missing ticket message")
		}

		user := interactionUser(i)
		if user == nil || i.Member == nil {
			return errors.New("ticket created outside of a guild")
		}

		t, settings, err := a.Tickets().CreateTicket(context.Background(), i.GuildID, user.ID, i.Member.Roles, opt.StringValue())
		switch {
		case errors.Is(err, ticketing.ErrTicketingDisabled):
			return respondSlashEphemeral(a, i, messages.ErrTicketingDisabled)
		case errors.Is(err, ticketing.ErrNotAllowed):
			return respondSlashEphemeral(a, i, messages.ErrNotAllowedToCreate)
		case err != nil:
			return fmt.Errorf("error creating ticket: %w", err)
		}

		embed := ticketEmbed(t, user.Username)

		// Without a ticket channel the ticket is posted where it was created.
		if settings.TicketChannelID == "" || settings.TicketChannelID == i.ChannelID {
			return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Embeds:     []*discordgo.MessageEmbed{embed},
					Components: voteComponents(t.ID),
				},
			})
		}

		if _, err := a.Session().ChannelMessageSendComplex(settings.TicketChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: voteComponents(t.ID),
		}); err != nil {
			return fmt.Errorf("error posting ticket: %w", err)
		}
		return respondSlashEphemeral(a, i, fmt.Sprintf("Ticket #%d has been created in <#%s>.", t.ID, settings.TicketChannelID))
	}
}

func voteCmd(sub *discordgo.ApplicationCommandInteractionDataOption, up bool) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		opt, ok := parseOptions(sub.Options)[idOptionName]
		if !ok {
			return respondSlashEphemeral(a, i, messages.ErrNoSuchTicket)
		}

		t, err := a.Tickets().Vote(context.Background(), i.GuildID, int(opt.IntValue()), interactionUserID(i), up)
		if errors.Is(err, ticketing.ErrNoSuchTicket) {
			return respondSlashEphemeral(a, i, messages.ErrNoSuchTicket)
		} else if err != nil {
			return fmt.Errorf("error voting on ticket: %w", err)
		}
		return respondSlashEphemeral(a, i, fmt.Sprintf("Ticket #%d: %s", t.ID, voteSummary(t)))
	}
}

// voteButtonHandler toggles the vote of the user pressing a ticket button and refreshes the ticket message.
func voteButtonHandler(up bool) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		id, err := parseButtonTicketID(i.MessageComponentData().CustomID)
		if err != nil {
			return err
		}

		t, err := a.Tickets().Vote(context.Background(), i.GuildID, id, interactionUserID(i), up)
		if errors.Is(err, ticketing.ErrNoSuchTicket) {
			return respondSlashEphemeral(a, i, messages.ErrNoSuchTicket)
		} else if err != nil {
			return fmt.Errorf("error voting on ticket: %w", err)
		}

		return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{ticketEmbed(t, ticketAuthor(a, i.GuildID, t.InitiatingUser))},
				Components: voteComponents(t.ID),
			},
		})
	}
}
