// Package backup periodically exports the guild configs to local files.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"github.com/robfig/cron/v3"
)

// Kind is the kind of a backup.
type Kind string

const (
	// KindFull contains every guild config.
	KindFull Kind = "full"

	// KindIncremental contains the guild configs saved since the previous backup.
	KindIncremental Kind = "incremental"
)

// runTimeout bounds a single backup run.
const runTimeout = time.Minute

// Source is where the backed up documents are read from.
type Source interface {
	ListAll(ctx context.Context) ([]*entities.GuildConfig, error)
	ModifiedSince(ctx context.Context, since time.Time) ([]*entities.GuildConfig, error)
}

// File is the content of a backup file.
type File struct {
	Kind      Kind                    `json:"kind"`
	TakenAt   time.Time               `json:"taken_at"`
	Since     *time.Time              `json:"since,omitempty"`
	Documents []*entities.GuildConfig `json:"documents"`
}

// Scheduler runs full and incremental backups on cron schedules.
type Scheduler struct {
	// l is the logger.
	l *slog.Logger

	// src is the store being backed up.
	src Source

	// now returns the current time.
	now func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	folder string
	last   time.Time
}

// NewScheduler creates a scheduler that has not been started.
func NewScheduler(l *slog.Logger, src Source) *Scheduler {
	return &Scheduler{
		l:   l.With(slog.String("service", "backup")),
		src: src,
		now: time.Now,
	}
}

// Start schedules the backups described by cfg. Starting an already started scheduler replaces its
// schedule.
func (s *Scheduler) Start(cfg *entities.BackupConfig) error {
	if cfg == nil {
		return errors.New("backup config is nil")
	}

	if err := os.MkdirAll(cfg.FolderPath, 0o750); err != nil {
		return fmt.Errorf("error creating backup folder: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.FullBackupFrequency, s.job(KindFull)); err != nil {
		return fmt.Errorf("error scheduling full backup: %w", err)
	}
	if _, err := c.AddFunc(cfg.IncrementalBackupFrequency, s.job(KindIncremental)); err != nil {
		return fmt.Errorf("error scheduling incremental backup: %w", err)
	}

	s.mu.Lock()
	prev := s.cron
	s.cron = c
	s.folder = cfg.FolderPath
	s.mu.Unlock()

	if prev != nil {
		<-prev.Stop().Done()
	}
	c.Start()

	s.l.Info("Backup schedule started",
		slog.String("name", cfg.Name),
		slog.String("full", cfg.FullBackupFrequency),
		slog.String("incremental", cfg.IncrementalBackupFrequency),
		slog.String("folder", cfg.FolderPath),
	)
	return nil
}

// Stop stops the schedule and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *Scheduler) job(kind Kind) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		path, err := s.Run(ctx, kind)
		if err != nil {
			s.l.Error("Error running backup", slog.String("kind", string(kind)), slog.String(logging.KeyError, err.Error()))
			return
		}
		s.l.Debug("Backup written", slog.String("kind", string(kind)), slog.String("path", path))
	}
}

// Run takes a backup of the given kind now and returns the path of the written file. An incremental backup
// taken before any other backup contains every document.
func (s *Scheduler) Run(ctx context.Context, kind Kind) (string, error) {
	s.mu.Lock()
	folder, last := s.folder, s.last
	s.mu.Unlock()

	if folder == "" {
		return "", errors.New("backup scheduler has not been started")
	}

	takenAt := s.now().UTC()
	f := &File{
		Kind:    kind,
		TakenAt: takenAt,
	}

	var err error
	switch kind {
	case KindFull:
		f.Documents, err = s.src.ListAll(ctx)
		if errors.Is(err, dataaccess.ErrNotInitialized) {
			err = nil
		}
	case KindIncremental:
		if !last.IsZero() {
			f.Since = &last
		}
		f.Documents, err = s.src.ModifiedSince(ctx, last)
	default:
		return "", fmt.Errorf("unknown backup kind %q", kind)
	}
	if err != nil {
		return "", fmt.Errorf("error reading guild configs: %w", err)
	}

	path := filepath.Join(folder, fmt.Sprintf("%s.%s.json", takenAt.Format("20060102T150405Z"), kind))
	if err := writeFile(path, f); err != nil {
		return "", err
	}

	s.mu.Lock()
	if takenAt.After(s.last) {
		s.last = takenAt
	}
	s.mu.Unlock()

	return path, nil
}

func writeFile(path string, f *File) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding backup: %w", err)
	}

	// Renamed into place so a partially written backup is never visible.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o640); err != nil {
		return fmt.Errorf("error writing backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error moving backup into place: %w", err)
	}
	return nil
}
