package campaign

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wburns02/ReactCRM-sub015/internal/metrics"
)

// DispatcherHandle controls a running dispatcher loop. Stop cancels the
// ticker and waits for any in-flight batch to finish, so every attempted
// step still lands in a terminal state. Stopping twice is a no-op.
type DispatcherHandle struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Stop shuts the dispatcher down and blocks until the loop has exited.
func (h *DispatcherHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
	<-h.done
}

// StartDispatcher runs the polling loop: one immediate dispatch, then one per
// interval. The loop is a single goroutine, so ticks cannot overlap; a tick
// that fires while a batch is still running is simply dropped by the ticker.
func (e *Engine) StartDispatcher(interval time.Duration) *DispatcherHandle {
	h := &DispatcherHandle{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(h.done)
		e.DispatchDue()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				e.DispatchDue()
			}
		}
	}()
	log.Printf("SMS dispatcher started (interval %s)", interval)
	return h
}

// DispatchDue sends every pending step whose scheduled time has arrived.
// Success marks the step sent; a transport failure marks it failed with the
// error message and moves on — the loop never crashes on a bad send and
// never retries. Returns the number of steps sent and failed. If another
// dispatch run is already in flight the call is skipped entirely.
func (e *Engine) DispatchDue() (sent, failed int) {
	if !e.dispatchMu.TryLock() {
		log.Println("Dispatch already in flight, skipping tick")
		return 0, 0
	}
	defer e.dispatchMu.Unlock()

	start := time.Now()
	now := e.now()
	due, err := e.store.Due(now)
	if err != nil {
		log.Printf("Error reading due steps: %v", err)
		return 0, 0
	}
	metrics.DispatchBatchSize.Observe(float64(len(due)))
	if len(due) == 0 {
		metrics.DispatchDurationSeconds.Observe(time.Since(start).Seconds())
		return 0, 0
	}

	for _, step := range due {
		if err := e.sender.Send(step.ContactPhone, step.Message); err != nil {
			if markErr := e.store.MarkFailed(step.ID, e.now(), err.Error()); markErr != nil {
				log.Printf("Error marking step %s failed: %v", step.ID, markErr)
				continue
			}
			failed++
			metrics.StepsFailedTotal.Inc()
			e.recordAudit(e.now(), "step_failed",
				fmt.Sprintf("step=%s contact=%s: %v", step.ID, step.ContactID, err))
			e.events("step_failed", step.ID)
			log.Printf("SMS step %s to %s failed: %v", step.ID, step.ContactPhone, err)
			continue
		}
		if markErr := e.store.MarkSent(step.ID, e.now()); markErr != nil {
			log.Printf("Error marking step %s sent: %v", step.ID, markErr)
			continue
		}
		sent++
		metrics.StepsSentTotal.Inc()
		e.recordAudit(e.now(), "step_sent",
			fmt.Sprintf("step=%s contact=%s sequence=%s", step.ID, step.ContactID, step.SequenceID))
		e.events("step_sent", step.ID)
	}

	metrics.DispatchDurationSeconds.Observe(time.Since(start).Seconds())
	log.Printf("Dispatched %d due steps: %d sent, %d failed", len(due), sent, failed)
	return sent, failed
}
