// Package saga keeps a list of compensating actions for multi-step operations
// whose steps cannot share a transaction (remote uploads followed by a record write).
package saga

import (
	"context"
	"fmt"
)

// Compensation undoes one completed step
type Compensation func(ctx context.Context) error

// Failure describes a compensation that returned an error
type Failure struct {
	Name string
	Err  error
}

// Error implements the error interface
func (f Failure) Error() string {
	return fmt.Sprintf("compensation %q failed: %v", f.Name, f.Err)
}

type step struct {
	name string
	undo Compensation
}

// Saga records compensations as steps succeed.
// A Saga is used by a single goroutine and is not safe for concurrent use.
type Saga struct {
	steps []step
	done  bool
}

// New creates an empty saga
func New() *Saga {
	return &Saga{}
}

// Add registers the compensation for a step that has just succeeded
func (s *Saga) Add(name string, compensation Compensation) {
	s.steps = append(s.steps, step{name: name, undo: compensation})
}

// Len returns the number of registered compensations
func (s *Saga) Len() int {
	return len(s.steps)
}

// Complete marks the saga as finished; Compensate becomes a no-op afterwards
func (s *Saga) Complete() {
	s.done = true
}

// Compensate runs every registered compensation in reverse registration order.
// It runs on a context detached from the caller's cancellation so cleanup still
// happens when the request that started the saga was aborted.
// Every compensation runs even if an earlier one failed; the failures are returned.
func (s *Saga) Compensate(ctx context.Context) []Failure {
	if s.done {
		return nil
	}
	s.done = true

	ctx = context.WithoutCancel(ctx)

	var failures []Failure
	for i := len(s.steps) - 1; i >= 0; i-- {
		if err := s.steps[i].undo(ctx); err != nil {
			failures = append(failures, Failure{Name: s.steps[i].name, Err: err})
		}
	}
	return failures
}
