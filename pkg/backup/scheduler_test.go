package backup

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Jacobbrewer1/lithium/pkg/dataaccess/dataaccesstest"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readBackup(t *testing.T, path string) *File {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	f := new(File)
	require.NoError(t, json.Unmarshal(b, f))
	return f
}

func TestScheduler_Run(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := dataaccesstest.NewGuildConfigDal()
	require.NoError(t, src.AddMany(ctx, []*entities.GuildConfig{
		entities.NewGuildConfig("1"),
		entities.NewGuildConfig("2"),
	}))

	s := NewScheduler(testLogger(), src)
	now := time.Date(2099, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Start(entities.NewBackupConfig(dir)))
	t.Cleanup(s.Stop)

	path, err := s.Run(ctx, KindFull)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20990301T120000Z.full.json"), path)

	full := readBackup(t, path)
	require.Equal(t, KindFull, full.Kind)
	require.Nil(t, full.Since)
	require.Len(t, full.Documents, 2)

	// Nothing was saved after the full backup, so the incremental one is empty.
	now = now.Add(time.Hour)
	path, err = s.Run(ctx, KindIncremental)
	require.NoError(t, err)

	inc := readBackup(t, path)
	require.Equal(t, KindIncremental, inc.Kind)
	require.NotNil(t, inc.Since)
	require.True(t, inc.Since.Equal(time.Date(2099, 3, 1, 12, 0, 0, 0, time.UTC)))
	require.Empty(t, inc.Documents)
}

func TestScheduler_IncrementalWithoutPrevious(t *testing.T) {
	ctx := context.Background()

	src := dataaccesstest.NewGuildConfigDal()
	require.NoError(t, src.Add(ctx, "1", ""))

	s := NewScheduler(testLogger(), src)
	require.NoError(t, s.Start(entities.NewBackupConfig(t.TempDir())))
	t.Cleanup(s.Stop)

	path, err := s.Run(ctx, KindIncremental)
	require.NoError(t, err)

	f := readBackup(t, path)
	require.Nil(t, f.Since)
	require.Len(t, f.Documents, 1)
}

func TestScheduler_FullBeforeInitialization(t *testing.T) {
	s := NewScheduler(testLogger(), dataaccesstest.NewGuildConfigDal())
	require.NoError(t, s.Start(entities.NewBackupConfig(t.TempDir())))
	t.Cleanup(s.Stop)

	path, err := s.Run(context.Background(), KindFull)
	require.NoError(t, err)
	require.Empty(t, readBackup(t, path).Documents)
}

func TestScheduler_Errors(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Scheduler) error
	}{
		{
			name: "not started",
			run: func(s *Scheduler) error {
				_, err := s.Run(context.Background(), KindFull)
				return err
			},
		},
		{
			name: "nil config",
			run: func(s *Scheduler) error {
				return s.Start(nil)
			},
		},
		{
			name: "invalid full schedule",
			run: func(s *Scheduler) error {
				cfg := entities.NewBackupConfig(t.TempDir())
				cfg.FullBackupFrequency = "every tuesday"
				return s.Start(cfg)
			},
		},
		{
			name: "invalid incremental schedule",
			run: func(s *Scheduler) error {
				cfg := entities.NewBackupConfig(t.TempDir())
				cfg.IncrementalBackupFrequency = "* * *"
				return s.Start(cfg)
			},
		},
		{
			name: "unknown kind",
			run: func(s *Scheduler) error {
				if err := s.Start(entities.NewBackupConfig(t.TempDir())); err != nil {
					return err
				}
				defer s.Stop()
				_, err := s.Run(context.Background(), Kind("differential"))
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(testLogger(), dataaccesstest.NewGuildConfigDal())
			require.Error(t, tt.run(s))
		})
	}
}
