package optimize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler reruns an Optimizer over one directory on a cron schedule. Runs
// never overlap: a tick that fires while the previous run is busy is skipped.
type Scheduler struct {
	cron *cron.Cron
	id   cron.EntryID
}

// NewScheduler registers the job. spec is a standard five-field cron
// expression or a descriptor such as "@every 1h".
func NewScheduler(o *Optimizer, dir, spec string) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	id, err := c.AddFunc(spec, func() {
		report, err := o.Run(context.Background(), dir)
		if err != nil {
			slog.Error("scheduled optimize failed", "dir", dir, "err", err)
			return
		}
		slog.Info("scheduled optimize done", "dir", dir,
			"optimized", len(report.Optimized), "failed", len(report.Failed))
	})
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, id: id}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and returns a context that is done once any running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Entry exposes the registered job, mostly for its next fire time.
func (s *Scheduler) Entry() cron.Entry {
	return s.cron.Entry(s.id)
}
