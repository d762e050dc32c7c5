// Package ticketing changes the ticketing settings and tickets of a guild.
package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
)

// maxAttempts is how many times an update is retried when the config is changed underneath it.
const maxAttempts = 3

var (
	// ErrNoSuchTicket is returned when a ticket ID does not exist in the guild.
	ErrNoSuchTicket = errors.New("there is no ticket with that id")

	// ErrTicketingDisabled is returned when a ticket is created while ticketing is off.
	ErrTicketingDisabled = errors.New("ticketing is disabled")

	// ErrNotAllowed is returned when a member may not create tickets.
	ErrNotAllowed = errors.New("member is not allowed to create tickets")

	// errUnchanged aborts an update without saving.
	errUnchanged = errors.New("unchanged")
)

// Service applies changes to guild configs.
type Service struct {
	// l is the logger.
	l *slog.Logger

	// dal is the guild config store.
	dal dataaccess.GuildConfigDal
}

// NewService creates a new ticketing service.
func NewService(l *slog.Logger, dal dataaccess.GuildConfigDal) *Service {
	return &Service{
		l:   l.With(slog.String("service", "ticketing")),
		dal: dal,
	}
}

// Config gets the config of a guild, or the default config if it has none yet.
func (s *Service) Config(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	g, err := s.dal.Get(ctx, guildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return entities.NewGuildConfig(guildID), nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	return g, nil
}

// update loads the config of the guild, applies fn and saves the result. If the config was changed by
// someone else in the meantime the whole cycle is repeated. An error from fn aborts without saving.
func (s *Service) update(ctx context.Context, guildID string, fn func(g *entities.GuildConfig) error) (*entities.GuildConfig, error) {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var g *entities.GuildConfig
		g, err = s.Config(ctx, guildID)
		if err != nil {
			return nil, err
		}

		if err := fn(g); errors.Is(err, errUnchanged) {
			return g, nil
		} else if err != nil {
			return nil, err
		}

		err = s.dal.Save(ctx, g)
		if err == nil {
			return g, nil
		} else if !errors.Is(err, dataaccess.ErrConflict) {
			return nil, fmt.Errorf("error saving guild config: %w", err)
		}

		s.l.Debug("Guild config changed while updating, retrying",
			slog.String(logging.KeyGuildID, guildID),
			slog.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("error saving guild config after %d attempts: %w", maxAttempts, err)
}

// ToggleUseTicketing flips whether the ticketing system is used and returns the new value.
func (s *Service) ToggleUseTicketing(ctx context.Context, guildID string) (bool, error) {
	g, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		g.Ticketing.UseTicketing = !g.Ticketing.UseTicketing
		return nil
	})
	if err != nil {
		return false, err
	}
	return g.Ticketing.UseTicketing, nil
}

// ToggleAllowAnyUserToCreate flips whether every member may create tickets and returns the new value.
func (s *Service) ToggleAllowAnyUserToCreate(ctx context.Context, guildID string) (bool, error) {
	g, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		g.Ticketing.AllowAnyUserToCreate = !g.Ticketing.AllowAnyUserToCreate
		return nil
	})
	if err != nil {
		return false, err
	}
	return g.Ticketing.AllowAnyUserToCreate, nil
}

// SetTicketChannel sets the channel ticket updates are logged in.
func (s *Service) SetTicketChannel(ctx context.Context, guildID string, channelID string) error {
	_, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		g.Ticketing.TicketChannelID = channelID
		return nil
	})
	return err
}

// AddAllowedRole adds a role to the ticket creation allow-list and returns the new list.
func (s *Service) AddAllowedRole(ctx context.Context, guildID string, roleID string) ([]string, error) {
	g, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		if !g.Ticketing.AddAllowedRole(roleID) {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(g.Ticketing.AllowedCreationRoles), nil
}

// RemoveAllowedRole removes a role from the ticket creation allow-list and returns the new list.
func (s *Service) RemoveAllowedRole(ctx context.Context, guildID string, roleID string) ([]string, error) {
	g, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		if !g.Ticketing.RemoveAllowedRole(roleID) {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(g.Ticketing.AllowedCreationRoles), nil
}

// Ticket gets a ticket of the guild. Returns ErrNoSuchTicket if it does not exist.
func (s *Service) Ticket(ctx context.Context, guildID string, ticketID int) (*entities.Ticket, error) {
	g, err := s.Config(ctx, guildID)
	if err != nil {
		return nil, err
	}
	t := g.Ticket(ticketID)
	if t == nil {
		return nil, ErrNoSuchTicket
	}
	return t, nil
}

// ToggleSolved flips the solved status of a ticket and stores the reason. Returns ErrNoSuchTicket, without
// changing anything, if the ticket does not exist.
func (s *Service) ToggleSolved(ctx context.Context, guildID string, ticketID int, reason string) (*entities.Ticket, error) {
	var ticket *entities.Ticket
	_, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		ticket = g.Ticket(ticketID)
		if ticket == nil {
			return ErrNoSuchTicket
		}
		ticket.ToggleSolved(reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// CreateTicket opens a ticket for a member holding the given roles. The returned settings are the ones the
// ticket was created under.
func (s *Service) CreateTicket(ctx context.Context, guildID, userID string, roleIDs []string, message string) (*entities.Ticket, *entities.TicketSettings, error) {
	var ticket *entities.Ticket
	g, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		if !g.Ticketing.UseTicketing {
			return ErrTicketingDisabled
		}
		if !g.Ticketing.CanCreate(roleIDs...) {
			return ErrNotAllowed
		}
		ticket = entities.NewTicket(g.NextTicketID(), userID, message)
		g.Tickets = append(g.Tickets, ticket)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.l.Info("Ticket created",
		slog.String(logging.KeyGuildID, guildID),
		slog.String(logging.KeyUserID, userID),
		slog.Int("ticket_id", ticket.ID),
	)
	return ticket, &g.Ticketing, nil
}

// Vote toggles a member's upvote (up) or downvote on a ticket.
func (s *Service) Vote(ctx context.Context, guildID string, ticketID int, userID string, up bool) (*entities.Ticket, error) {
	var ticket *entities.Ticket
	_, err := s.update(ctx, guildID, func(g *entities.GuildConfig) error {
		ticket = g.Ticket(ticketID)
		if ticket == nil {
			return ErrNoSuchTicket
		}
		if up {
			ticket.Upvote(userID)
		} else {
			ticket.Downvote(userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
