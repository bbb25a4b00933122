// Copyright 2025 QuickDeck Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/wire"
	"github.com/pkg/errors"
	"github.com/robfig/cron"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/internal/engine/repo"
	"github.com/shenyubao/quickdeck/pkg/log"
	"github.com/shenyubao/quickdeck/pkg/safe"
)

// ProviderSet 提供调度相关的依赖
var ProviderSet = wire.NewSet(
	NewScheduler,
)

// tickInterval 调度轮询周期。crontab 精度为分钟，一分钟一轮即可。
const tickInterval = time.Minute

// Runner is the contract the scheduler needs: fire the job and report
// only whether the dispatch itself failed. Run outcomes are already
// recorded by the execute service.
type Runner interface {
	RunScheduled(ctx context.Context, jobId int64) error
}

// Scheduler 周期扫描启用了调度的工作流，到点后按 scheduled 方式执行。
type Scheduler struct {
	workflowRepo repo.IWorkflowRepository
	runner       Runner

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	inflightMu sync.Mutex
	inflight   map[int64]struct{} // job ids currently executing (dedup)

	lastTick time.Time
}

func NewScheduler(workflowRepo repo.IWorkflowRepository, runner Runner) *Scheduler {
	return &Scheduler{
		workflowRepo: workflowRepo,
		runner:       runner,
		inflight:     make(map[int64]struct{}),
	}
}

// Start launches the background scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.lastTick = time.Now()
	s.mu.Unlock()

	safe.Go(func() { s.loop(loopCtx) })
	log.Infow("scheduler started", "interval", tickInterval.String())
	return nil
}

// Stop gracefully shuts down the scheduling loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	log.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

// tick runs every workflow whose crontab fired since the previous tick.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	prev := s.lastTick
	s.lastTick = now
	s.mu.Unlock()

	workflows, err := s.workflowRepo.ListScheduled(ctx)
	if err != nil {
		log.Errorw("list scheduled workflows failed", "error", err)
		return
	}

	for _, workflow := range workflows {
		due, err := dueBetween(workflow, prev, now)
		if err != nil {
			log.Warnw("invalid crontab",
				"jobId", workflow.JobId, "crontab", workflow.ScheduleCrontab, "error", err)
			continue
		}
		if !due {
			continue
		}
		if !s.tryAcquire(workflow.JobId) {
			log.Warnw("scheduled run skipped, previous run still in flight", "jobId", workflow.JobId)
			continue
		}

		jobId := workflow.JobId
		safe.Go(func() {
			defer s.release(jobId)
			if err := s.runner.RunScheduled(ctx, jobId); err != nil {
				log.Errorw("scheduled run failed", "jobId", jobId, "error", err)
			}
		})
	}
}

// dueBetween reports whether the workflow's crontab has a fire time in
// (prev, now]. The crontab uses the standard 5-field format; the
// workflow's timezone applies when set.
func dueBetween(workflow *model.Workflow, prev, now time.Time) (bool, error) {
	schedule, err := cron.ParseStandard(workflow.ScheduleCrontab)
	if err != nil {
		return false, errors.Wrapf(err, "parse crontab %q", workflow.ScheduleCrontab)
	}

	base := prev
	if workflow.ScheduleTimezone != "" {
		loc, err := time.LoadLocation(workflow.ScheduleTimezone)
		if err != nil {
			return false, errors.Wrapf(err, "load timezone %q", workflow.ScheduleTimezone)
		}
		base = prev.In(loc)
		now = now.In(loc)
	}

	next := schedule.Next(base)
	return !next.IsZero() && !next.After(now), nil
}

func (s *Scheduler) tryAcquire(jobId int64) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, ok := s.inflight[jobId]; ok {
		return false
	}
	s.inflight[jobId] = struct{}{}
	return true
}

func (s *Scheduler) release(jobId int64) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, jobId)
}
