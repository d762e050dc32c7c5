package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
)

func guildJoinedHandler(a IApp, dal dataaccess.GuildConfigDal, register func(guildID string) error) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		l := a.Log().With(slog.String(logging.KeyGuildID, g.ID))
		l.Info(fmt.Sprintf("Joined guild %s", g.Name))

		// Increment the total number of guilds.
		TotalDiscordGuilds.Inc()

		if err := dal.Add(context.Background(), g.ID, g.Name); err != nil {
			l.Error("Error adding guild config", slog.String(logging.KeyError, err.Error()))
		}

		if err := register(g.ID); err != nil {
			l.Error("Error registering slash commands", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func guildLeaveHandler(a IApp, dal dataaccess.GuildConfigDal, forget func(guildID string)) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		l := a.Log().With(slog.String(logging.KeyGuildID, g.ID))

		// Decrement the total number of guilds.
		TotalDiscordGuilds.Dec()

		if g.Unavailable {
			// An outage, the bot is still a member and the guild comes back with a GUILD_CREATE.
			l.Warn("Guild became unavailable")
			return
		}

		l.Info(fmt.Sprintf("Left guild %s", g.Name))

		forget(g.ID)

		if err := dal.Remove(context.Background(), g.ID, g.Name); err != nil {
			l.Error("Error removing guild config", slog.String(logging.KeyError, err.Error()))
		}
	}
}
