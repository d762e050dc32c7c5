package main

import (
	"context"
	"errors"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess/dataaccesstest"
	"github.com/stretchr/testify/require"
)

func TestGuildHandlers(t *testing.T) {
	ctx := context.Background()
	dal := dataaccesstest.NewGuildConfigDal()

	var registered, forgotten []string
	joined := guildJoinedHandler(newTestApp(), dal, func(guildID string) error {
		registered = append(registered, guildID)
		return nil
	})
	left := guildLeaveHandler(newTestApp(), dal, func(guildID string) {
		forgotten = append(forgotten, guildID)
	})

	joined(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1", Name: "One"}})
	joined(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "2", Name: "Two"}})
	// Guilds coming back from an outage are created again.
	joined(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1", Name: "One"}})

	require.Equal(t, 2, dal.Len())
	require.Equal(t, []string{"1", "2", "1"}, registered)

	// An outage keeps the config.
	left(nil, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "1", Unavailable: true}})
	_, err := dal.Get(ctx, "1")
	require.NoError(t, err)
	require.Empty(t, forgotten)

	left(nil, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "1"}})
	_, err = dal.Get(ctx, "1")
	require.ErrorIs(t, err, dataaccess.ErrNotFound)
	require.Equal(t, []string{"1"}, forgotten)
	require.Equal(t, 1, dal.Len())
}

func TestGuildJoinedHandler_Failures(t *testing.T) {
	dal := dataaccesstest.NewGuildConfigDal()
	dal.Err = errors.New("mongo down")

	registered := false
	joined := guildJoinedHandler(newTestApp(), dal, func(string) error {
		registered = true
		return errors.New("discord down")
	})

	// Failures are logged, commands are still registered when the config could not be stored.
	joined(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1"}})
	require.True(t, registered)
}
