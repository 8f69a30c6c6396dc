package scheduler

import (
	"fmt"

	"arcadepal/internal/config"
	"arcadepal/internal/database"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// Scheduler handles periodic execution of scheduled tasks
type Scheduler struct {
	session *discordgo.Session
	config  *config.Config
	db      *database.DB
	cron    *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(session *discordgo.Session, cfg *config.Config, db *database.DB) *Scheduler {
	return &Scheduler{
		session: session,
		config:  cfg,
		db:      db,
		cron:    cron.New(),
	}
}

// RegisterFunc schedules fn on the given cron spec. The name is used for
// logging when the job fails; failures never stop the schedule.
func (s *Scheduler) RegisterFunc(spec, name string, fn func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := fn(); err != nil {
			s.config.Logger.Errorf("Scheduled task %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task %s: %w", name, err)
	}
	return nil
}

// Start begins running the registered jobs
func (s *Scheduler) Start() {
	s.config.Logger.Info("Starting scheduler...")
	s.cron.Start()
}

// Stop halts the scheduler. Jobs already running are left to finish.
func (s *Scheduler) Stop() {
	s.config.Logger.Info("Stopping scheduler...")
	s.cron.Stop()
}
