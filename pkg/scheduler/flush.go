package scheduler

import (
	"context"
	"errors"
	"time"
)

// Flusher is a buffered event sink that ships its buffer on demand
type Flusher interface {
	Flush(ctx context.Context) error
	Pending() int
}

// AddFlusher schedules f to be flushed every interval while it has work
func (s *Scheduler) AddFlusher(name string, interval time.Duration, f Flusher) {
	s.AddTask(name+"_flush", interval, func(ctx context.Context) error {
		if f.Pending() == 0 {
			return nil
		}
		return f.Flush(ctx)
	})
}

// FlushAll flushes every flusher once, for use on shutdown
func FlushAll(ctx context.Context, flushers ...Flusher) error {
	var errs []error
	for _, f := range flushers {
		if f.Pending() == 0 {
			continue
		}
		if err := f.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
