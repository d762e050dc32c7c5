package dataaccess

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Jacobbrewer1/lithium/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

// setupMongo starts a Mongo container for the test and returns a connected client.
func setupMongo(t *testing.T) *mongo.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}

	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7",
		testcontainers.WithLabels(map[string]string{
			"test":      "lithium-dataaccess",
			"test-name": t.Name(),
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	conn := &connection.MongoDB{ConnectionString: uri}
	client, err := conn.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Disconnect(context.Background()))
	})

	return client
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuildConfigDal(t *testing.T) {
	client := setupMongo(t)
	ctx := context.Background()

	t.Run("list before initialization", func(t *testing.T) {
		d := NewGuildConfigDal(testLogger(), client, "list_uninitialized")

		got, err := d.ListAll(ctx)
		require.ErrorIs(t, err, ErrNotInitialized)
		require.Empty(t, got)
	})

	t.Run("add is idempotent", func(t *testing.T) {
		d := NewGuildConfigDal(testLogger(), client, "add_idempotent")

		require.NoError(t, d.Add(ctx, "42", "Guild"))
		require.NoError(t, d.Add(ctx, "42", "Guild"))

		got, err := d.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "42", got[0].ID)
	})

	t.Run("remove then get", func(t *testing.T) {
		d := NewGuildConfigDal(testLogger(), client, "remove_get")

		require.NoError(t, d.Add(ctx, "42", ""))
		require.NoError(t, d.Remove(ctx, "42", ""))
		require.NoError(t, d.Remove(ctx, "42", ""))

		_, err := d.Get(ctx, "42")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("add many ignores existing", func(t *testing.T) {
		d := NewGuildConfigDal(testLogger(), client, "add_many")

		require.NoError(t, d.Add(ctx, "2", ""))
		g2, err := d.Get(ctx, "2")
		require.NoError(t, err)
		g2.Ticketing.UseTicketing = true
		require.NoError(t, d.Save(ctx, g2))

		configs := []*entities.GuildConfig{
			entities.NewGuildConfig("1"),
			entities.NewGuildConfig("2"),
			entities.NewGuildConfig("3"),
		}
		require.NoError(t, d.AddMany(ctx, configs))

		got, err := d.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, g := range got {
			require.Equal(t, fmt.Sprint(i+1), g.ID)
		}
		require.True(t, got[1].Ticketing.UseTicketing, "existing config must not be overwritten")
	})

	t.Run("save detects conflicts", func(t *testing.T) {
		d := NewGuildConfigDal(testLogger(), client, "save_conflict")

		require.NoError(t, d.Add(ctx, "42", ""))

		first, err := d.Get(ctx, "42")
		require.NoError(t, err)
		second, err := d.Get(ctx, "42")
		require.NoError(t, err)

		first.Ticketing.UseTicketing = true
		require.NoError(t, d.Save(ctx, first))

		second.Ticketing.TicketChannelID = "99"
		require.ErrorIs(t, d.Save(ctx, second), ErrConflict)

		got, err := d.Get(ctx, "42")
		require.NoError(t, err)
		require.True(t, got.Ticketing.UseTicketing)
		require.Empty(t, got.Ticketing.TicketChannelID)
		require.Equal(t, first.Version, got.Version)
	})

	t.Run("save creates missing config", func(t *testing.T) {
		d := NewGuildConfigDal(testLogger(), client, "save_create")

		g := entities.NewGuildConfig("7")
		g.Tickets = append(g.Tickets, entities.NewTicket(1, "u", "help"))
		require.NoError(t, d.Save(ctx, g))
		require.EqualValues(t, 1, g.Version)

		got, err := d.Get(ctx, "7")
		require.NoError(t, err)
		require.Equal(t, "help", got.Ticket(1).Message)

		require.ErrorIs(t, d.Save(ctx, entities.NewGuildConfig("7")), ErrConflict)
	})

	t.Run("modified since", func(t *testing.T) {
		d := NewGuildConfigDal(testLogger(), client, "modified_since")

		require.NoError(t, d.Add(ctx, "1", ""))
		cutoff := time.Now().Add(time.Hour)

		got, err := d.ModifiedSince(ctx, cutoff)
		require.NoError(t, err)
		require.Empty(t, got)

		got, err = d.ModifiedSince(ctx, time.Time{})
		require.NoError(t, err)
		require.Len(t, got, 1)
	})
}

func TestMaintenance(t *testing.T) {
	client := setupMongo(t)
	ctx := context.Background()

	m := NewMaintenance(testLogger(), client, "maintenance")
	d := NewGuildConfigDal(testLogger(), client, "maintenance")

	require.NoError(t, m.Ping(ctx))

	exists, err := m.DatabaseExists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, m.CreateDatabase(ctx))
	require.NoError(t, m.CreateDatabase(ctx))

	exists, err = m.DatabaseExists(ctx)
	require.NoError(t, err)
	require.True(t, exists)

	// The guild configs are only materialized by the first write.
	_, err = d.ListAll(ctx)
	require.ErrorIs(t, err, ErrNotInitialized)

	_, err = m.BackupConfig(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SaveBackupConfig(ctx, entities.NewBackupConfig("setup/backups")))
	cfg, err := m.BackupConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, "*/10 * * * *", cfg.FullBackupFrequency)
	require.Equal(t, "0 2 * * *", cfg.IncrementalBackupFrequency)
	require.Equal(t, "setup/backups", cfg.FolderPath)
}
