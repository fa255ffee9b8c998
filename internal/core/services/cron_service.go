package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs. Currently one job: an
// hourly sweep deleting expired session blobs from the store.
type CronService struct {
	cron     *cron.Cron
	sessions *SessionManager
}

// NewCronService creates a new cron service
func NewCronService(sessions *SessionManager) *CronService {
	return &CronService{
		cron:     cron.New(),
		sessions: sessions,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() {
	s.cron.AddFunc("@hourly", func() {
		purged, err := s.sessions.PurgeExpired()
		if err != nil {
			log.Printf("❌ Session purge failed: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("🧹 Purged %d expired sessions", purged)
		}
	})

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}
