package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"github.com/Jacobbrewer1/lithium/pkg/messages"
	"github.com/Jacobbrewer1/lithium/pkg/request"
	"github.com/gorilla/mux"
)

// commandController picks the processor for a slash command.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor handles an interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

// buttonIDSeparator separates the action of a button from its argument in the custom ID.
const buttonIDSeparator = ":"

func middlewareHttp(a IApp, handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}

		defer func() {
			// The status code is only known once the handler has returned.
			code := fmt.Sprintf("%d", cw.StatusCode())
			HttpTotalRequests.WithLabelValues(path, r.Method, code).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, code).Observe(time.Since(now).Seconds())
		}()

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if cw.HeaderWritten() {
					// Too late to change the response.
					return
				}
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		handler.ServeHTTP(cw, r)
	}
}

// interactionHandler dispatches slash commands and button presses to their controllers. Errors returned by
// a processor are logged and answered with a generic error.
func interactionHandler(
	a IApp,
	limiter *userLimiter,
	slashControllers map[string]commandController,
	buttonControllers map[string]commandProcessor,
) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var (
			name      string
			processor commandProcessor
			err       error
		)

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name = i.ApplicationCommandData().Name
			controller, ok := slashControllers[name]
			if !ok {
				err = fmt.Errorf("no controller found for command %s", name)
				break
			}
			processor, err = controller(a, i)
		case discordgo.InteractionMessageComponent:
			name, _, _ = strings.Cut(i.MessageComponentData().CustomID, buttonIDSeparator)
			var ok bool
			if processor, ok = buttonControllers[name]; !ok {
				err = fmt.Errorf("no controller found for button %s", name)
			}
		default:
			return
		}
		if err == nil && processor == nil {
			err = fmt.Errorf("no processor for %s", name)
		}

		l := a.Log().With(
			slog.String(logging.KeyCommand, name),
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyUserID, interactionUserID(i)),
		)
		l.Debug("Handling interaction")

		if err == nil && !limiter.Allow(interactionUserID(i)) {
			TotalRateLimitedCommands.WithLabelValues(name).Inc()
			processor = replyProcessor(messages.ErrRateLimited)
		}

		if err == nil {
			t := time.Now()
			err = processor(a, i)
			DiscordCommandDuration.WithLabelValues(name).Observe(time.Since(t).Seconds())
		}

		if err != nil {
			l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))
			if err := respondSlashError(a, i); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}

// replyProcessor answers the interaction with an ephemeral message.
func replyProcessor(content string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		return respondSlashEphemeral(a, i, content)
	}
}
