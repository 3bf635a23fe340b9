// Package planner builds the coaching prompt, reaches the generative text
// service through the resilient-call wrapper, and manages save/load of the
// resulting plan.
package planner

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"chronoplan/internal/chronotype"
	"chronoplan/internal/db/models"
	"chronoplan/internal/resilience"
)

// Generator is the generative text collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// PlanStore is the slice of the data store plans live in.
type PlanStore interface {
	InsertPlan(ctx context.Context, p models.Plan) error
	// LatestPlan returns the most recent plan for ownerID, or nil when the
	// user has never saved one.
	LatestPlan(ctx context.Context, ownerID string) (*models.Plan, error)
}

// Identity is the slice of the session the planner reads.
type Identity interface {
	UserID() string
}

// ErrNoPlans is returned by LoadLast when nothing was ever saved.
var ErrNoPlans = errors.New("no saved plans found")

// errNoTasks rejects a generate call with nothing to plan.
var errNoTasks = errors.New("no incomplete tasks to plan, add tasks first")

// Service owns plan state for one session. Outcomes are observable via
// PlanHTML/Loading/Err/Success; methods also return their error so callers
// can branch without polling.
type Service struct {
	gen     Generator
	plans   PlanStore
	ident   Identity
	limiter *resilience.RateLimiter
	opts    resilience.Options

	language string
	now      func() time.Time

	mu       sync.Mutex
	planHTML string
	loading  bool
	err      error
	success  string
}

// NewService wires a planner with the default call policy: 30s timeout,
// 3 attempts, 1s base backoff, 10 calls per trailing hour.
func NewService(gen Generator, plans PlanStore, ident Identity, language string) *Service {
	if language == "" {
		language = "English"
	}
	return &Service{
		gen:      gen,
		plans:    plans,
		ident:    ident,
		limiter:  resilience.DefaultRateLimiter(),
		opts:     resilience.DefaultOptions(),
		language: language,
		now:      time.Now,
	}
}

// Generate asks the service for a schedule mapping the incomplete tasks
// onto the chronotype's energy pattern. Rejected before any network call
// when the rate limiter denies, no incomplete tasks exist, or no credential
// is configured. On failure the previous plan is left untouched.
func (s *Service) Generate(ctx context.Context, timeframe Timeframe, tasks []models.Task, result chronotype.Result, mode chronotype.Mode) error {
	s.setBusy()
	defer s.setIdle()

	if !s.limiter.TryAcquire(s.now()) {
		return s.fail(&resilience.RateLimitError{Limit: s.limiter.Limit()})
	}
	if !s.gen.Configured() {
		return s.fail(&resilience.ValidationError{Field: "api key", Reason: "not configured"})
	}

	var incomplete []models.Task
	for _, t := range tasks {
		if !t.Completed {
			incomplete = append(incomplete, t)
		}
	}
	if len(incomplete) == 0 {
		return s.fail(errNoTasks)
	}

	prompt := buildPrompt(timeframe, incomplete, result, mode, s.language)
	text, err := resilience.Call(ctx, func(ctx context.Context) (string, error) {
		return s.gen.Generate(ctx, prompt)
	}, s.opts)
	if err != nil {
		log.Printf("planner: generate: %v", err)
		return s.fail(err)
	}

	html, err := renderHTML(text)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.planHTML = html
	s.err = nil
	s.mu.Unlock()
	return nil
}

// Save persists the current plan keyed to the owner. No-op without a plan
// or an identity.
func (s *Service) Save(ctx context.Context) error {
	owner := s.ident.UserID()
	s.mu.Lock()
	html := s.planHTML
	s.err = nil
	s.success = ""
	s.mu.Unlock()
	if owner == "" || html == "" {
		return nil
	}

	if err := s.plans.InsertPlan(ctx, models.Plan{UserID: owner, HTML: html, CreatedAt: s.now()}); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.success = "Plan saved!"
	s.mu.Unlock()
	return nil
}

// LoadLast fetches the most recently saved plan for the owner.
func (s *Service) LoadLast(ctx context.Context) error {
	owner := s.ident.UserID()
	if owner == "" {
		return s.fail(ErrNoPlans)
	}

	s.setBusy()
	defer s.setIdle()

	p, err := s.plans.LatestPlan(ctx, owner)
	if err != nil {
		return s.fail(err)
	}
	if p == nil {
		return s.fail(ErrNoPlans)
	}
	s.mu.Lock()
	s.planHTML = p.HTML
	s.mu.Unlock()
	return nil
}

// Clear discards the current plan and any pending messages.
func (s *Service) Clear() {
	s.mu.Lock()
	s.planHTML = ""
	s.err = nil
	s.success = ""
	s.mu.Unlock()
}

// PlanHTML returns the current sanitized plan markup, "" when none.
func (s *Service) PlanHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planHTML
}

// Loading reports whether a generate or load is in flight.
func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last failure, nil after a success or Clear.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Success returns the last success message, "" when none.
func (s *Service) Success() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success
}

func (s *Service) setBusy() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.success = ""
	s.mu.Unlock()
}

func (s *Service) setIdle() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Service) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return err
}
