package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/backup"
	"github.com/Jacobbrewer1/lithium/pkg/bootstrap"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"github.com/Jacobbrewer1/lithium/pkg/request"
	"github.com/Jacobbrewer1/lithium/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// shutdownTimeout bounds how long the monitoring server may take to stop.
	shutdownTimeout = 10 * time.Second

	// userGuildsPageSize is the most guilds Discord returns per page.
	userGuildsPageSize = 200
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Tickets returns the ticketing service.
	Tickets() *ticketing.Service
}

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the configuration of the application.
	cfg *Config

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// guildConfigs is the guild config store.
	guildConfigs dataaccess.GuildConfigDal

	// maintenance manages the database itself.
	maintenance dataaccess.Maintenance

	// tickets applies changes to the ticketing settings and tickets.
	tickets *ticketing.Service

	// backups runs the periodic backups.
	backups *backup.Scheduler

	// limiter rate limits commands per user.
	limiter *userLimiter

	// commands holds the commands registered in each guild.
	commands   map[string][]*discordgo.ApplicationCommand
	commandsMu sync.Mutex
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	cfg *Config,
	r *mux.Router,
	guildConfigs dataaccess.GuildConfigDal,
	maintenance dataaccess.Maintenance,
	tickets *ticketing.Service,
	backups *backup.Scheduler,
) *App {
	return &App{
		Logger:       l,
		cfg:          cfg,
		r:            r,
		guildConfigs: guildConfigs,
		maintenance:  maintenance,
		tickets:      tickets,
		backups:      backups,
		limiter:      newUserLimiter(commandRate, commandBurst),
		commands:     make(map[string][]*discordgo.ApplicationCommand),
	}
}

// Run connects to Discord, prepares the database and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	a.RegisterDiscordHandlers()

	go a.eventListener()

	// Bootstrapped before the gateway opens, GUILD_CREATE writes would otherwise create the database first.
	b := bootstrap.New(a.Logger, a.maintenance, a.guildConfigs, a.backups, a.cfg.BackupDir, os.Exit)
	if err := b.Run(ctx, a); err != nil {
		return fmt.Errorf("error bootstrapping database: %w", err)
	}

	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.setupRoutes()
	a.runServer()

	<-ctx.Done()
	a.Info("Received shutdown signal", slog.String("reason", context.Cause(ctx).Error()))
	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	TotalDiscordGuilds.Set(0)

	a.backups.Stop()

	if a.svr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.svr.Shutdown(ctx); err != nil {
			a.Error("Error stopping monitoring server", slog.String(logging.KeyError, err.Error()))
		}
	}

	if err := a.unregisterSlashCommands(); err != nil {
		a.Error("Error unregistering slash commands", slog.String(logging.KeyError, err.Error()))
	}

	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	discordgo.Logger = logging.DiscordgoLogger(a.Logger)

	dg, err := discordgo.New("Bot " + a.cfg.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	if a.eventNotifier == nil {
		// Buffered so that a slow listener does not block the gateway.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

func (a *App) setupRoutes() {
	a.r.Handle(PathMetrics, middlewareHttp(a, promhttp.Handler())).Methods(http.MethodGet)
	a.r.Handle(PathHealth, middlewareHttp(a, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) runServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

// GuildIDs lists the guilds the bot is a member of.
func (a *App) GuildIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0)
	after := ""
	for {
		guilds, err := a.s.UserGuilds(userGuildsPageSize, "", after)
		if err != nil {
			return nil, fmt.Errorf("error getting guilds: %w", err)
		}
		for _, g := range guilds {
			ids = append(ids, g.ID)
		}
		if len(guilds) < userGuildsPageSize {
			return ids, nil
		}
		after = guilds[len(guilds)-1].ID
	}
}

func (a *App) RegisterDiscordHandlers() {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a, a.guildConfigs, a.registerSlashCommands))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a, a.guildConfigs, a.forgetSlashCommands))

	a.s.AddHandler(interactionHandler(a, a.limiter,
		// Slash Controllers
		map[string]commandController{
			ticketManageCmd.Name: ticketManageController,
			ticketCmd.Name:       ticketController,
		},
		// Button Controllers
		map[string]commandProcessor{
			UpvoteButtonID:   voteButtonHandler(true),
			DownvoteButtonID: voteButtonHandler(false),
		}))
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

// registerSlashCommands replaces the commands of a guild with the bot's commands.
func (a *App) registerSlashCommands(guildID string) error {
	created, err := a.s.ApplicationCommandBulkOverwrite(a.cfg.ApplicationID, guildID, commands)
	if err != nil {
		return fmt.Errorf("error creating commands for guild %s: %w", guildID, err)
	}

	a.commandsMu.Lock()
	a.commands[guildID] = created
	a.commandsMu.Unlock()
	return nil
}

func (a *App) forgetSlashCommands(guildID string) {
	a.commandsMu.Lock()
	delete(a.commands, guildID)
	a.commandsMu.Unlock()
}

func (a *App) unregisterSlashCommands() error {
	a.commandsMu.Lock()
	registered := a.commands
	a.commands = make(map[string][]*discordgo.ApplicationCommand)
	a.commandsMu.Unlock()

	var errs []error
	for guildID, cmds := range registered {
		for _, cmd := range cmds {
			if err := a.s.ApplicationCommandDelete(a.cfg.ApplicationID, guildID, cmd.ID); err != nil {
				errs = append(errs, fmt.Errorf("error deleting command %s for guild %s: %w", cmd.Name, guildID, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Tickets() *ticketing.Service {
	return a.tickets
}
