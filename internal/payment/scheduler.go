package payment

import (
	"sync"
	"time"
)

// Scheduler runs cancellable scheduled tasks for one payment attempt: a
// periodic status poll and a one-shot deadline check run concurrently, and
// CancelAll stops both atomically. After CancelAll returns no task body
// scheduled earlier will run.
type Scheduler struct {
	mu    sync.Mutex
	stops []chan struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// StartPeriodic runs task every interval until CancelAll.
func (s *Scheduler) StartPeriodic(interval time.Duration, task func()) {
	stop := s.register()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				task()
			}
		}
	}()
}

// StartOnce runs task once after delay unless cancelled first.
func (s *Scheduler) StartOnce(delay time.Duration, task func()) {
	stop := s.register()
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-stop:
			return
		case <-timer.C:
			select {
			case <-stop:
				return
			default:
			}
			task()
		}
	}()
}

// CancelAll stops every schedule started so far. The scheduler stays
// usable; a retry arms fresh schedules on the same instance.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stop := range s.stops {
		close(stop)
	}
	s.stops = nil
}

func (s *Scheduler) register() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	stop := make(chan struct{})
	s.stops = append(s.stops, stop)
	return stop
}
