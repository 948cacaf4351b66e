package services

import (
	"log"
	"sync"
	"time"
)

// emptyNoteGrace keeps a note the user just opened from being swept before
// they type anything.
const emptyNoteGrace = time.Hour

// CleanupService runs the daily empty-note sweep.
type CleanupService struct {
	notes *NoteService
	hour  int
	now   func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool

	statsMu      sync.Mutex
	lastRun      time.Time
	lastDeleted  int
	totalDeleted int
	lastError    string
}

// CleanupStats summarizes the sweeps run since startup.
type CleanupStats struct {
	HourUTC      int        `json:"hour_utc"`
	Running      bool       `json:"running"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastDeleted  int        `json:"last_deleted"`
	TotalDeleted int        `json:"total_deleted"`
	LastError    string     `json:"last_error,omitempty"`
	NextRun      time.Time  `json:"next_run"`
}

var cleanupService *CleanupService

// InitCleanupService initializes the singleton cleanup service. hourUTC is the
// hour of day (0-23) the sweep runs at.
func InitCleanupService(notes *NoteService, hourUTC int) *CleanupService {
	cleanupService = NewCleanupService(notes, hourUTC)
	return cleanupService
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

func NewCleanupService(notes *NoteService, hourUTC int) *CleanupService {
	if hourUTC < 0 || hourUTC > 23 {
		hourUTC = 14
	}
	return &CleanupService{
		notes: notes,
		hour:  hourUTC,
		now:   time.Now,
	}
}

// Start launches the background worker. Calling it twice is a no-op.
func (s *CleanupService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(s.stop, s.done)
	log.Printf("🧹 Empty-note cleanup scheduled daily at %02d:00 UTC", s.hour)
}

// Stop ends the worker and waits for an in-flight sweep to finish.
func (s *CleanupService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
}

// RunOnce sweeps immediately and returns how many notes were removed.
func (s *CleanupService) RunOnce() (int, error) {
	started := s.now()
	deleted, err := s.notes.DeleteEmptyNotes(started.Add(-emptyNoteGrace))

	s.statsMu.Lock()
	s.lastRun = started.UTC()
	s.lastDeleted = deleted
	s.totalDeleted += deleted
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.statsMu.Unlock()

	if err != nil {
		log.Printf("Error cleaning up empty notes: %v", err)
		return 0, err
	}
	if deleted == 0 {
		log.Println("No empty notes to cleanup")
	} else {
		log.Printf("✅ Cleaned up %d empty notes", deleted)
	}
	return deleted, nil
}

func (s *CleanupService) Stats() CleanupStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	stats := CleanupStats{
		HourUTC:      s.hour,
		Running:      running,
		LastDeleted:  s.lastDeleted,
		TotalDeleted: s.totalDeleted,
		LastError:    s.lastError,
		NextRun:      s.NextRun(s.now()),
	}
	if !s.lastRun.IsZero() {
		last := s.lastRun
		stats.LastRun = &last
	}
	return stats
}

// NextRun returns the first scheduled time strictly after from.
func (s *CleanupService) NextRun(from time.Time) time.Time {
	from = from.UTC()
	next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, 0, 0, 0, time.UTC)
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *CleanupService) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		timer := time.NewTimer(s.NextRun(s.now()).Sub(s.now()))
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			s.RunOnce()
		}
	}
}
