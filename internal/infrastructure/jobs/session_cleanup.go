package jobs

import (
	"context"
	"log"
	"time"

	"moneta.backend/internal/domain/repositories"
)

// SessionCleanupJob removes expired sessions and password reset tokens
type SessionCleanupJob struct {
	sessions      repositories.SessionRepository
	verifications repositories.VerificationRepository
	interval      time.Duration
	stop          chan struct{}
}

func NewSessionCleanupJob(sessions repositories.SessionRepository, verifications repositories.VerificationRepository) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions:      sessions,
		verifications: verifications,
		interval:      5 * time.Minute,
		stop:          make(chan struct{}),
	}
}

func (j *SessionCleanupJob) Start(ctx context.Context) {
	log.Println("🕐 Starting session cleanup job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Session cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Session cleanup job stopped")
			return
		case <-ticker.C:
			j.cleanup(ctx)
		}
	}
}

func (j *SessionCleanupJob) Stop() {
	close(j.stop)
}

func (j *SessionCleanupJob) cleanup(ctx context.Context) {
	removed, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Error removing expired sessions: %v", err)
	} else if removed > 0 {
		log.Printf("✅ Removed %d expired sessions", removed)
	}

	removed, err = j.verifications.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Error removing expired reset tokens: %v", err)
	} else if removed > 0 {
		log.Printf("✅ Removed %d expired reset tokens", removed)
	}
}
