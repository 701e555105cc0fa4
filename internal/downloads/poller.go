package downloads

import (
	"strings"
	"time"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/media"
)

func (s *Scheduler) startPoller() {
	s.pollStop = make(chan struct{})
	s.pollDone = make(chan struct{})
	go s.poll()
}

// poll redraws progress until Terminate. Ticks that come while a prompt is
// open are skipped.
func (s *Scheduler) poll() {
	defer close(s.pollDone)

	interval := consts.ProgressIntervalDefault
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-s.pollStop:
			return
		case <-timer.C:
		}

		if s.promptMu.TryLock() {
			interval = s.refreshLocked()
			s.promptMu.Unlock()
		}
		timer.Reset(interval)
	}
}

// Terminate stops the poller and draws the final state. It is safe to call
// more than once; the screen is not written by the poller after it returns.
func (s *Scheduler) Terminate() {
	s.terminateOnce.Do(func() {
		s.terminated.Store(true)

		if s.pollStop != nil {
			close(s.pollStop)
			<-s.pollDone
		}

		s.promptMu.Lock()
		s.refreshLocked()
		s.promptMu.Unlock()
	})
}

// refreshLocked redraws every item with a current resource and returns the
// interval until the next tick. promptMu must be held.
func (s *Scheduler) refreshLocked() time.Duration {
	interval := consts.ProgressIntervalDownloading
	for _, e := range s.entries {
		if status, ok := s.refreshEntry(e); ok && status == media.Converting {
			interval = consts.ProgressIntervalConverting
		}
	}
	return interval
}

func (s *Scheduler) refreshEntry(e *entry) (media.Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil || e.failed {
		return media.Ready, false
	}

	if !e.cleared && e.allDone() {
		s.screen.Update(e.heading, "")
		s.screen.Update(e.ready, "")
		s.screen.Update(e.prompt, "")
		e.cleared = true
	}

	e.frame++
	text := strings.Join(e.finished, "") + s.text.progress(e.title, e.current, e.frame)
	if text != e.drawn {
		s.screen.Update(e.progress, text)
		e.drawn = text
	}
	return e.current.Status(), true
}
