// Package bootstrap prepares the database when the bot starts.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
)

const (
	// pingTimeout bounds the reachability check of the database engine.
	pingTimeout = 5 * time.Second

	// exitGrace is how long the unreachable message stays on screen before the process exits.
	exitGrace = 5 * time.Second

	msgUnreachable = "MongoDB: server isn't reachable. Please make sure MongoDB is running. Exiting ..."
)

// ErrEngineUnreachable is returned when the database engine does not answer.
var ErrEngineUnreachable = errors.New("database engine is unreachable")

// GuildSource lists the guilds the bot is a member of.
type GuildSource interface {
	GuildIDs(ctx context.Context) ([]string, error)
}

// BackupStarter starts the periodic backups described by a backup config.
type BackupStarter interface {
	Start(cfg *entities.BackupConfig) error
}

// Bootstrapper runs the one time startup checks of the database.
type Bootstrapper struct {
	// l is the logger.
	l *slog.Logger

	maint   dataaccess.Maintenance
	dal     dataaccess.GuildConfigDal
	backups BackupStarter

	// backupFolder is where backups are written when the database is created.
	backupFolder string

	// exit terminates the process.
	exit func(code int)

	// grace is the delay before exit is called.
	grace time.Duration
}

// New creates a new bootstrapper. exit is called when the database engine is unreachable.
func New(
	l *slog.Logger,
	maint dataaccess.Maintenance,
	dal dataaccess.GuildConfigDal,
	backups BackupStarter,
	backupFolder string,
	exit func(code int),
) *Bootstrapper {
	return &Bootstrapper{
		l:            l.With(slog.String("service", "bootstrap")),
		maint:        maint,
		dal:          dal,
		backups:      backups,
		backupFolder: backupFolder,
		exit:         exit,
		grace:        exitGrace,
	}
}

// Run checks that the database engine is reachable, creates the database with its backup schedule when it
// is missing and seeds a default config for every joined guild on the first run. Only an unreachable engine
// is fatal, every other failure is logged and the bot keeps starting.
func (b *Bootstrapper) Run(ctx context.Context, guilds GuildSource) error {
	if err := b.ping(ctx); err != nil {
		b.l.Log(ctx, logging.LevelCritical, msgUnreachable, slog.String(logging.KeyError, err.Error()))

		t := time.NewTimer(b.grace)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}

		b.exit(1)
		return ErrEngineUnreachable
	}

	b.ensureDatabase(ctx)
	b.startBackups(ctx)
	b.seed(ctx, guilds)
	return nil
}

func (b *Bootstrapper) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return b.maint.Ping(ctx)
}

func (b *Bootstrapper) ensureDatabase(ctx context.Context) {
	exists, err := b.maint.DatabaseExists(ctx)
	if err != nil {
		b.l.Error("Error checking for database", slog.String(logging.KeyError, err.Error()))
		return
	} else if exists {
		return
	}

	if err := b.maint.CreateDatabase(ctx); err != nil {
		b.l.Error("Error creating database", slog.String(logging.KeyError, err.Error()))
		return
	}

	if err := b.maint.SaveBackupConfig(ctx, entities.NewBackupConfig(b.backupFolder)); err != nil {
		b.l.Error("Error saving backup config", slog.String(logging.KeyError, err.Error()))
	}
}

func (b *Bootstrapper) startBackups(ctx context.Context) {
	if b.backups == nil {
		return
	}

	cfg, err := b.maint.BackupConfig(ctx)
	if errors.Is(err, dataaccess.ErrNotFound) {
		// The database can exist without a schedule when something else wrote to it first.
		cfg = entities.NewBackupConfig(b.backupFolder)
		if err := b.maint.SaveBackupConfig(ctx, cfg); err != nil {
			b.l.Error("Error saving backup config", slog.String(logging.KeyError, err.Error()))
		}
	} else if err != nil {
		b.l.Warn("No backup schedule, backups are disabled", slog.String(logging.KeyError, err.Error()))
		return
	}

	if err := b.backups.Start(cfg); err != nil {
		b.l.Error("Error starting backups", slog.String(logging.KeyError, err.Error()))
	}
}

func (b *Bootstrapper) seed(ctx context.Context, guilds GuildSource) {
	_, err := b.dal.ListAll(ctx)
	if err == nil {
		return
	}

	// Any failure to list is treated as a first run. Seeding ignores configs that already exist.
	b.l.Info("Guild configs not initialized, seeding", slog.String("reason", err.Error()))

	ids, err := guilds.GuildIDs(ctx)
	if err != nil {
		b.l.Error("Error listing joined guilds", slog.String(logging.KeyError, err.Error()))
		return
	}

	configs := make([]*entities.GuildConfig, 0, len(ids))
	for _, id := range ids {
		configs = append(configs, entities.NewGuildConfig(id))
	}

	if err := b.dal.AddMany(ctx, configs); err != nil {
		b.l.Error("Error seeding guild configs", slog.String(logging.KeyError, err.Error()))
		return
	}

	b.l.Info(fmt.Sprintf("Seeded %d guild configs", len(configs)))
}
