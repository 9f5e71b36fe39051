// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrDuplicateJob    = errors.New("job already scheduled")
	ErrUnknownJob      = errors.New("job not scheduled")
	ErrAlreadyRunning  = errors.New("scheduler already running")
)

// RunFunc runs the named job once.
type RunFunc func(ctx context.Context, name string) error

// 📅 Entry describes one scheduled job
type Entry struct {
	Name string
	Spec string
	Next time.Time
}

type job struct {
	name     string
	spec     string
	schedule cron.Schedule
}

// ⏰ Scheduler fires jobs on standard cron expressions.
//
// Runs never overlap: a job that is still running when its next tick arrives
// is skipped, and different jobs wait for each other.
type Scheduler struct {
	run RunFunc
	now func() time.Time

	mu      sync.Mutex // guards the fields below
	jobs    []job
	cron    *cron.Cron
	running bool

	exec sync.Mutex // held while a job runs
}

// ValidateSpec checks a five field cron expression or an @descriptor such as
// "@daily" or "@every 1h".
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return errors.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}
	return nil
}

// 🏗️ New creates a scheduler that calls run for every tick
func New(run RunFunc) *Scheduler {
	return &Scheduler{
		run: run,
		now: time.Now,
	}
}

// ➕ Add registers a job. Jobs can only be added before Start.
func (s *Scheduler) Add(name, spec string) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return errors.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.Errorf("adding %s: %w", name, ErrAlreadyRunning)
	}
	for _, j := range s.jobs {
		if j.name == name {
			return errors.Errorf("%w: %s", ErrDuplicateJob, name)
		}
	}

	s.jobs = append(s.jobs, job{name: name, spec: spec, schedule: sched})
	return nil
}

// 🚀 Start begins firing jobs and returns. The scheduler stops by itself when
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	if s.running {
		return ErrAlreadyRunning
	}
	if len(s.jobs) == 0 {
		return errors.Errorf("%w: no jobs to schedule", ErrInvalidSchedule)
	}

	cl := cronLogger{logger: logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	for _, j := range s.jobs {
		name := j.name
		c.Schedule(j.schedule, cron.FuncJob(func() {
			if err := s.RunNow(ctx, name); err != nil {
				logger.Error().Err(err).Str("job", name).Msg("scheduled run failed")
			}
		}))
		logger.Info().Str("job", j.name).Str("schedule", j.spec).Time("next", j.schedule.Next(s.now())).Msg("job scheduled")
	}

	c.Start()
	s.cron = c
	s.running = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// ▶️ RunNow runs the named job immediately, waiting for any job in progress.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	if !s.has(name) {
		return errors.Errorf("%w: %s", ErrUnknownJob, name)
	}

	s.exec.Lock()
	defer s.exec.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return s.run(ctx, name)
}

// 🛑 Stop stops firing new runs and waits for a run in progress to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	wasRunning := s.running
	s.cron = nil
	s.running = false
	s.mu.Unlock()

	if !wasRunning || c == nil {
		return
	}
	<-c.Stop().Done()
}

// IsRunning reports whether Start was called and Stop has not been.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// 📋 Entries lists the registered jobs by their next run time.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]Entry, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, Entry{Name: j.name, Spec: j.spec, Next: j.schedule.Next(now)})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Next.Before(out[b].Next)
	})
	return out
}

func (s *Scheduler) has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.name == name {
			return true
		}
	}
	return false
}

// cronLogger sends cron's own chatter to zerolog
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
