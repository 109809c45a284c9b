package evalsrvc

import (
	"time"

	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/taskmaker"
)

const (
	flushInterval = 200 * time.Millisecond
	maxBatchSize  = 20
)

// flushEvents drains the parsed event stream into persisted batches. A
// batch is flushed when maxBatchSize events have accumulated or
// flushInterval has elapsed since the last flush, whichever comes first.
// Persistence is strictly sequential: the next batch is not written until
// persist returns for the previous one, so event creation order always
// matches arrival order, even under slow storage. Returns on channel
// close or on the first persistence error.
func flushEvents(ch <-chan taskmaker.Event, persist func([]domain.EvalEvent) error) error {
	batch := make([]domain.EvalEvent, 0, maxBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := persist(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	timer := time.NewTimer(flushInterval)
	defer timer.Stop()

	resetTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(flushInterval)
	}

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return flush()
			}
			batch = append(batch, domain.EvalEvent{Data: ev})
			if len(batch) >= maxBatchSize {
				if err := flush(); err != nil {
					return err
				}
				resetTimer()
			}
		case <-timer.C:
			if err := flush(); err != nil {
				return err
			}
			timer.Reset(flushInterval)
		}
	}
}
