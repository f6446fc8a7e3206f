package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/observability"
)

// PositionError records a position write that failed after retries.
type PositionError struct {
	ID  family.ID
	To  layout.Position
	Err error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("member %d: save position (%.1f, %.1f): %v", e.ID, e.To.X, e.To.Y, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }

// FlushReport summarizes one Flush call. Writes are independent: a failed
// member never undoes the writes that succeeded.
type FlushReport struct {
	BatchID  string
	Written  []family.ID
	Failures []*PositionError
	Duration time.Duration
}

// Err joins every failure into one PERSIST_FAILED error, or returns nil
// when all writes succeeded.
func (r FlushReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return kerrors.Wrap(kerrors.ErrCodePersistFailed, errors.Join(errs...),
		"%d of %d positions not saved", len(r.Failures), len(r.Failures)+len(r.Written))
}

// Flush writes each changed position to the store, one write per member,
// with bounded concurrency. Transient failures are retried with backoff.
func (r *Runner) Flush(ctx context.Context, changes []layout.Change) FlushReport {
	report := FlushReport{BatchID: uuid.NewString()}
	if len(changes) == 0 {
		return report
	}

	hooks := observability.Pipeline()
	hooks.OnFlushStart(ctx, report.BatchID, len(changes))
	start := time.Now()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(max(1, r.FlushConcurrency))

	for _, c := range changes {
		g.Go(func() error {
			err := r.save(ctx, c)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, &PositionError{ID: c.ID, To: c.To, Err: err})
			} else {
				report.Written = append(report.Written, c.ID)
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(report.Written)
	slices.SortFunc(report.Failures, func(a, b *PositionError) int { return cmp.Compare(a.ID, b.ID) })
	report.Duration = time.Since(start)

	for _, f := range report.Failures {
		r.Logger.Warn("position not saved", "batch", report.BatchID, "member", f.ID, "err", f.Err)
	}
	r.Logger.Info("flushed positions",
		"batch", report.BatchID,
		"written", len(report.Written),
		"failed", len(report.Failures),
		"duration", report.Duration)
	hooks.OnFlushComplete(ctx, report.BatchID, len(report.Written), len(report.Failures), report.Duration)
	return report
}

func (r *Runner) save(ctx context.Context, c layout.Change) error {
	if r.Writer == nil {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "no store configured")
	}
	return kerrors.RetryWithBackoff(ctx, r.RetryAttempts, r.RetryDelay, func() error {
		start := time.Now()
		err := r.Writer.SavePosition(ctx, c.ID, c.To.X, c.To.Y)
		observability.Store().OnPositionWrite(ctx, c.ID, time.Since(start), err)
		return err
	})
}
