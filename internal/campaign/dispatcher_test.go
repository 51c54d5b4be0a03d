package campaign_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
)

func TestDispatchDueSendsOnlyDueSteps(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, store, sender := newTestEngine(t, clock)

	contact := campaign.Contact{ID: "c-1", AccountName: "Pine Ridge", Phone: "+15550001111"}
	steps, err := eng.EnqueueSequence(contact, campaign.StatusNoAnswer)
	require.NoError(t, err)
	require.Len(t, steps, 3) // due now, +2h, +24h

	// Two hours and one second in: the first two steps are due, the third is
	// still a day out.
	clock.Advance(2*time.Hour + time.Second)
	sent, failed := eng.DispatchDue()
	assert.Equal(t, 2, sent)
	assert.Zero(t, failed)
	assert.Len(t, sender.Sent(), 2)

	pending, err := store.List(campaign.StepFilter{Status: campaign.StepPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].StepIndex)

	// Re-running immediately sends nothing new.
	sent, failed = eng.DispatchDue()
	assert.Zero(t, sent)
	assert.Zero(t, failed)
	assert.Len(t, sender.Sent(), 2)
}

func TestDispatchDueNothingDue(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, _, sender := newTestEngine(t, clock)

	// The interested sequence has a day-out second step; only the immediate
	// one goes out.
	contact := campaign.Contact{ID: "c-1", Phone: "+15550001111"}
	steps, err := eng.EnqueueSequence(contact, campaign.StatusConnectedInterested)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	sent, failed := eng.DispatchDue()
	assert.Equal(t, 1, sent)
	assert.Zero(t, failed)
	assert.Len(t, sender.Sent(), 1)
}

func TestDispatchDueMarksFailures(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, store, sender := newTestEngine(t, clock)
	sender.failTo = map[string]error{"+15559990000": errors.New("carrier rejected")}

	_, err := eng.EnqueueSequence(campaign.Contact{ID: "c-bad", Phone: "+15559990000"}, campaign.StatusCallbackRequested)
	require.NoError(t, err)
	_, err = eng.EnqueueSequence(campaign.Contact{ID: "c-good", Phone: "+15550001111"}, campaign.StatusCallbackRequested)
	require.NoError(t, err)

	sent, failed := eng.DispatchDue()
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)

	failedSteps, err := store.List(campaign.StepFilter{Status: campaign.StepFailed})
	require.NoError(t, err)
	require.Len(t, failedSteps, 1)
	assert.Equal(t, "c-bad", failedSteps[0].ContactID)
	assert.Equal(t, "carrier rejected", failedSteps[0].Error)

	// Failed steps are terminal: the next run does not retry them.
	sent, failed = eng.DispatchDue()
	assert.Zero(t, sent)
	assert.Zero(t, failed)
}

func TestDispatchDueRecordsSentAt(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, store, _ := newTestEngine(t, clock)

	_, err := eng.EnqueueSequence(campaign.Contact{ID: "c-1", Phone: "+15550001111"}, campaign.StatusCallbackRequested)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	sent, _ := eng.DispatchDue()
	require.Equal(t, 1, sent)

	sentSteps, err := store.List(campaign.StepFilter{Status: campaign.StepSent})
	require.NoError(t, err)
	require.Len(t, sentSteps, 1)
	require.NotNil(t, sentSteps[0].SentAt)
	assert.Equal(t, clock.Now(), *sentSteps[0].SentAt)
}

// blockingSender parks inside Send until released, reporting entry so the
// test knows the dispatch run is mid-batch.
type blockingSender struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSender) Send(to, message string) error {
	s.entered <- struct{}{}
	<-s.release
	return nil
}

func TestDispatchDueSkipsWhenRunInFlight(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	sender := &blockingSender{entered: make(chan struct{}), release: make(chan struct{})}
	store := campaign.NewMemoryStore()
	eng, err := campaign.New(campaign.DefaultCapacityConfig(), testTemplates(), campaign.DefaultSequences(),
		store, sender, campaign.WithNow(clock.Now))
	require.NoError(t, err)

	_, err = eng.EnqueueSequence(campaign.Contact{ID: "c-1", Phone: "+15550001111"}, campaign.StatusCallbackRequested)
	require.NoError(t, err)

	firstDone := make(chan struct{})
	var firstSent int
	go func() {
		defer close(firstDone)
		firstSent, _ = eng.DispatchDue()
	}()

	<-sender.entered // first run now holds the dispatch lock, mid-send

	// A concurrent call must bail out instead of waiting behind the first.
	sent, failed := eng.DispatchDue()
	assert.Zero(t, sent)
	assert.Zero(t, failed)

	close(sender.release)
	select {
	case <-firstDone:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked dispatch never finished")
	}
	assert.Equal(t, 1, firstSent)
}

func TestStartDispatcherRunsImmediately(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, store, _ := newTestEngine(t, clock)

	_, err := eng.EnqueueSequence(campaign.Contact{ID: "c-1", Phone: "+15550001111"}, campaign.StatusCallbackRequested)
	require.NoError(t, err)

	// A long interval proves the first run does not wait for the ticker.
	handle := eng.StartDispatcher(time.Hour)
	defer handle.Stop()

	assert.Eventually(t, func() bool {
		sent, err := store.List(campaign.StepFilter{Status: campaign.StepSent})
		return err == nil && len(sent) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartDispatcherPolls(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, store, _ := newTestEngine(t, clock)

	handle := eng.StartDispatcher(20 * time.Millisecond)
	defer handle.Stop()

	// Enqueued after the immediate run; only a later tick can pick it up.
	time.Sleep(5 * time.Millisecond)
	_, err := eng.EnqueueSequence(campaign.Contact{ID: "c-1", Phone: "+15550001111"}, campaign.StatusCallbackRequested)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		sent, err := store.List(campaign.StepFilter{Status: campaign.StepSent})
		return err == nil && len(sent) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, _, _ := newTestEngine(t, clock)

	handle := eng.StartDispatcher(10 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		handle.Stop()
		handle.Stop() // second stop must not panic or hang
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	handle.Stop()
}

func TestStoppedDispatcherSendsNothingFurther(t *testing.T) {
	clock := newFakeClock(at(10, 0))
	eng, store, _ := newTestEngine(t, clock)

	handle := eng.StartDispatcher(10 * time.Millisecond)
	handle.Stop()

	_, err := eng.EnqueueSequence(campaign.Contact{ID: "c-1", Phone: "+15550001111"}, campaign.StatusCallbackRequested)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	pending, err := store.List(campaign.StepFilter{Status: campaign.StepPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
