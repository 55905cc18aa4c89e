package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOnce_ExecutesEveryJob(t *testing.T) {
	s := NewScheduler()

	var sweeps, reports atomic.Int32
	s.AddJob("stale-break-sweep", time.Hour, func(ctx context.Context) error {
		sweeps.Add(1)
		return nil
	})
	s.AddJob("daily-report", time.Hour, func(ctx context.Context) error {
		reports.Add(1)
		return errors.New("report backend unavailable")
	})

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	assert.Equal(t, int32(2), sweeps.Load())
	// A failing job does not stop the others
	assert.Equal(t, int32(2), reports.Load())
}

func TestStartRunsJobsImmediately(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	s.AddJob("stale-break-sweep", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
}
