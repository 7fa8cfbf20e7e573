// Package scheduler runs the periodic database backup.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"personahub/internal/config"
	"personahub/internal/ipc"
	"personahub/internal/logger"
	"personahub/internal/storage"
)

// Scheduler drives the automatic backup job from the db settings
// section (autoBackup, backupIntervalDays, keepBackups).
type Scheduler struct {
	cron      *cron.Cron
	store     storage.Storage
	settings  *config.Store
	events    *ipc.EventBus
	log       *logger.Logger
	backupDir string

	backupEntryID cron.EntryID
}

// New creates a scheduler; Start arms it.
func New(store storage.Storage, settings *config.Store, events *ipc.EventBus, log *logger.Logger, backupDir string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		store:     store,
		settings:  settings,
		events:    events,
		log:       log,
		backupDir: backupDir,
	}
}

// Start arms the backup job when autoBackup is enabled. Returns an error
// only when the settings cannot be read.
func (s *Scheduler) Start() error {
	section, err := s.settings.GetSection(config.SectionDB)
	if err != nil {
		return fmt.Errorf("read db settings: %w", err)
	}
	if !config.Bool(section["autoBackup"], true) {
		s.log.Info("[Scheduler] automatic backup disabled")
		return nil
	}

	days := config.Int(section["backupIntervalDays"], 7)
	if days < 1 {
		days = 1
	}
	spec := fmt.Sprintf("@every %dh", days*24)

	s.backupEntryID, err = s.cron.AddFunc(spec, s.runBackup)
	if err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}
	s.cron.Start()
	s.log.Info("[Scheduler] automatic backup every %d day(s)", days)
	return nil
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path, err := s.store.Backup(ctx, s.backupDir)
	if err != nil {
		s.log.Error("[Scheduler] backup failed: %v", err)
		return
	}
	s.log.Info("[Scheduler] backup written: %s", path)

	keep := 5
	if section, err := s.settings.GetSection(config.SectionDB); err == nil {
		keep = config.Int(section["keepBackups"], keep)
	}
	if removed, err := storage.PruneBackups(s.backupDir, keep); err != nil {
		s.log.Warn("[Scheduler] prune backups: %v", err)
	} else if removed > 0 {
		s.log.Info("[Scheduler] pruned %d old backup(s)", removed)
	}

	if s.events != nil {
		s.events.Emit(ipc.EventBackupCompleted, map[string]any{
			"path":      path,
			"scheduled": true,
		})
	}
}

// NextBackupTime returns when the next automatic backup will run, zero
// when the job is not armed.
func (s *Scheduler) NextBackupTime() time.Time {
	if s.backupEntryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.backupEntryID).Next
}

// Stop halts the scheduler; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
