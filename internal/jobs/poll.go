// Package jobs talks to the asynchronous generation vendors. Both follow a
// submit-then-poll pattern and differ only in their PollPolicy.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// ErrNotCompleted is wrapped when a bounded policy runs out of attempts
var ErrNotCompleted = errors.New("job did not complete within the allowed attempts")

// ErrJobFailed is wrapped when the vendor reports a failed job
var ErrJobFailed = errors.New("vendor reported job failure")

// StatusFunc maps a raw vendor status to a normalized job status
type StatusFunc func(status string) types.JobStatus

// PollPolicy describes how a job is polled until it reaches a terminal status.
// MaxAttempts of 0 means poll until a terminal status or ctx is done.
type PollPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	Classify    StatusFunc
}

// Bounded reports whether the policy gives up after MaxAttempts
func (p PollPolicy) Bounded() bool {
	return p.MaxAttempts > 0
}

// BoundedPolicy polls at most attempts times; only completed is terminal-success,
// every other status counts as pending.
func BoundedPolicy(attempts int, interval time.Duration, completed string) PollPolicy {
	return PollPolicy{
		MaxAttempts: attempts,
		Interval:    interval,
		Classify: func(status string) types.JobStatus {
			if strings.EqualFold(status, completed) {
				return types.JobCompleted
			}
			return types.JobPending
		},
	}
}

// UnboundedPolicy polls until success or failed is reported
func UnboundedPolicy(interval time.Duration, success, failed string) PollPolicy {
	return PollPolicy{
		Interval: interval,
		Classify: func(status string) types.JobStatus {
			switch {
			case strings.EqualFold(status, success):
				return types.JobCompleted
			case strings.EqualFold(status, failed):
				return types.JobFailed
			default:
				return types.JobPending
			}
		},
	}
}

// Snapshot is one observation of a job
type Snapshot[T any] struct {
	Status string
	Result T
}

// CheckFunc fetches the current job state. A returned error aborts polling.
type CheckFunc[T any] func(ctx context.Context) (Snapshot[T], error)

// Poll waits Interval before every attempt and returns the result of the first
// completed snapshot. The handle is updated as polling progresses.
func Poll[T any](ctx context.Context, policy PollPolicy, handle *types.JobHandle, check CheckFunc[T]) (T, error) {
	var zero T

	timer := time.NewTimer(policy.Interval)
	defer timer.Stop()

	for attempt := 1; !policy.Bounded() || attempt <= policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			handle.Status = types.JobFailed
			return zero, types.NewUnavailable(types.MsgTimedOut, ctx.Err())
		case <-timer.C:
		}

		snap, err := check(ctx)
		if err != nil {
			handle.Status = types.JobFailed
			if ctx.Err() != nil {
				return zero, types.NewUnavailable(types.MsgTimedOut, ctx.Err())
			}
			return zero, err
		}

		handle.Status = policy.Classify(snap.Status)
		log.Printf("[Jobs] %s job %s attempt %d: status=%q", handle.Vendor, handle.JobID, attempt, snap.Status)

		if handle.Status.IsTerminal() {
			if handle.Status == types.JobCompleted {
				return snap.Result, nil
			}
			return zero, fmt.Errorf("%s job %s: %w", handle.Vendor, handle.JobID, ErrJobFailed)
		}

		timer.Reset(policy.Interval)
	}

	handle.Status = types.JobFailed
	return zero, fmt.Errorf("%s job %s after %d attempts: %w", handle.Vendor, handle.JobID, policy.MaxAttempts, ErrNotCompleted)
}
