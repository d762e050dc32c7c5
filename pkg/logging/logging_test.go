package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	buf := new(bytes.Buffer)

	c := NewConfig("tests")
	c.Writer = buf
	c.NoColor = true

	l, err := CommonLogger(c)
	require.NoError(t, err)

	l.Info("hello", slog.String(KeyGuildID, "42"))
	l.Debug("hidden")

	out := buf.String()
	require.Contains(t, out, "hello")
	require.Contains(t, out, "guild_id=42")
	require.Contains(t, out, "app=tests")
	require.NotContains(t, out, "hidden")
}

func TestCommonLogger_NilConfig(t *testing.T) {
	_, err := CommonLogger(nil)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "empty defaults to info", in: "", want: slog.LevelInfo},
		{name: "upper case", in: "WARN", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "critical", in: "critical", want: LevelCritical},
		{name: "unknown", in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDiscordgoLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	l := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	DiscordgoLogger(l)(discordgoLogWarning, 0, "heartbeat %d\nmissed", 3)

	out := buf.String()
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "heartbeat 3 missed")
	require.Contains(t, out, "source=discordgo")
}
