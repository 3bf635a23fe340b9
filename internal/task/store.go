// Package task owns the in-memory task list for the current session and
// keeps it reconciled with the remote store: mutations apply locally first
// and roll back if the remote rejects them, while a realtime change
// subscription pulls in ground truth from elsewhere.
package task

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"chronoplan/internal/db/models"
	"chronoplan/internal/resilience"
	"chronoplan/internal/session"
)

// Remote is the CRUD+subscribe slice of the data store the task list needs.
type Remote interface {
	// InsertTask persists t (its temporary id is ignored) and returns the
	// authoritative record.
	InsertTask(ctx context.Context, t models.Task) (*models.Task, error)
	SetTaskCompleted(ctx context.Context, id string, completed bool) error
	DeleteTask(ctx context.Context, id string) error
	// TasksByOwner returns all tasks for ownerID, newest created first.
	TasksByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	// SubscribeTaskChanges invokes fn on every change event for ownerID,
	// regardless of origin, and returns an unsubscribe function.
	SubscribeTaskChanges(ctx context.Context, ownerID string, fn func()) (func(), error)
}

// Identity is the slice of the session the store reads.
type Identity interface {
	UserID() string
	Subscribe(fn func(session.State)) func()
}

// Draft is the user input for a new task.
type Draft struct {
	Description string
	Duration    string
	Kind        models.Kind
	Recurring   bool
}

// ErrNoIdentity rejects operations issued before a user is signed in.
var ErrNoIdentity = fmt.Errorf("no authenticated user")

// ErrNotConfirmed rejects a Remove that skipped the confirmation step.
var ErrNotConfirmed = fmt.Errorf("delete not confirmed")

// Store holds the authoritative in-memory task list. All access goes
// through its methods; List returns copies.
type Store struct {
	remote Remote
	ident  Identity

	mu    sync.Mutex
	tasks []models.Task
	unsub func() // active realtime subscription, nil when none

	identUnsub func()
}

func NewStore(remote Remote, ident Identity) *Store {
	return &Store{remote: remote, ident: ident}
}

// Start watches the session: when identity becomes available the store
// fetches the list and opens its realtime subscription; on identity loss
// both are dropped.
func (s *Store) Start(ctx context.Context) {
	s.identUnsub = s.ident.Subscribe(func(st session.State) {
		switch st {
		case session.StateAuthenticated:
			if err := s.Refresh(ctx); err != nil {
				log.Printf("task: initial refresh: %v", err)
			}
			if err := s.resubscribe(ctx); err != nil {
				log.Printf("task: subscribe: %v", err)
			}
		default:
			s.dropSubscription()
			s.mu.Lock()
			s.tasks = nil
			s.mu.Unlock()
		}
	})

	if s.ident.UserID() != "" {
		if err := s.Refresh(ctx); err != nil {
			log.Printf("task: initial refresh: %v", err)
		}
		if err := s.resubscribe(ctx); err != nil {
			log.Printf("task: subscribe: %v", err)
		}
	}
}

// resubscribe tears down any existing subscription first so a change event
// is never delivered twice.
func (s *Store) resubscribe(ctx context.Context) error {
	owner := s.ident.UserID()
	if owner == "" {
		return ErrNoIdentity
	}
	s.dropSubscription()

	unsub, err := s.remote.SubscribeTaskChanges(ctx, owner, func() {
		if err := s.Refresh(context.Background()); err != nil {
			log.Printf("task: refresh on change event: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.unsub = unsub
	s.mu.Unlock()
	return nil
}

func (s *Store) dropSubscription() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Close tears down the realtime subscription and the identity watch.
// Calling it more than once is a no-op.
func (s *Store) Close() {
	s.dropSubscription()
	if s.identUnsub != nil {
		s.identUnsub()
		s.identUnsub = nil
	}
}

// List returns the current view, newest created first.
func (s *Store) List() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// snapshot must be called with s.mu held.
func (s *Store) snapshot() []models.Task {
	snap := make([]models.Task, len(s.tasks))
	copy(snap, s.tasks)
	return snap
}

// Add inserts a task optimistically at the head of the list under a
// temporary id, then issues the remote create. On success the temporary
// entry is replaced in place by the authoritative record; on failure the
// pre-add snapshot is restored.
func (s *Store) Add(ctx context.Context, draft Draft) error {
	owner := s.ident.UserID()
	if owner == "" {
		return ErrNoIdentity
	}
	if draft.Description == "" {
		return &resilience.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	kind := draft.Kind
	if kind == "" {
		kind = models.KindShort
	}

	temp := models.Task{
		ID:          models.NewTempID(),
		UserID:      owner,
		Description: draft.Description,
		Duration:    draft.Duration,
		Kind:        kind,
		Recurring:   draft.Recurring,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	snap := s.snapshot()
	s.tasks = append([]models.Task{temp}, s.tasks...)
	s.mu.Unlock()

	created, err := s.remote.InsertTask(ctx, temp)
	if err != nil {
		s.mu.Lock()
		s.tasks = snap
		s.mu.Unlock()
		return fmt.Errorf("adding task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == temp.ID {
			if s.indexOf(created.ID) >= 0 {
				// A refresh already delivered the authoritative record;
				// drop the temporary entry to keep ids unique.
				s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			} else {
				s.tasks[i] = *created
			}
			break
		}
	}
	return nil
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Toggle flips completion optimistically, then issues the remote update,
// restoring the pre-toggle snapshot on failure.
func (s *Store) Toggle(ctx context.Context, id string) error {
	if s.ident.UserID() == "" {
		return ErrNoIdentity
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("task %s not found", id)
	}
	snap := s.snapshot()
	s.tasks[i].Completed = !s.tasks[i].Completed
	completed := s.tasks[i].Completed
	s.mu.Unlock()

	if err := s.remote.SetTaskCompleted(ctx, id, completed); err != nil {
		s.mu.Lock()
		s.tasks = snap
		s.mu.Unlock()
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

// Remove deletes a task optimistically. confirmed reflects the user's
// answer to the confirmation step; a false value aborts without touching
// anything.
func (s *Store) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if s.ident.UserID() == "" {
		return ErrNoIdentity
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("task %s not found", id)
	}
	snap := s.snapshot()
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	if err := s.remote.DeleteTask(ctx, id); err != nil {
		s.mu.Lock()
		s.tasks = snap
		s.mu.Unlock()
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// Refresh replaces local state with the remote's current truth. A refresh
// racing an in-flight optimistic mutation is allowed to win; the remote is
// ground truth.
func (s *Store) Refresh(ctx context.Context) error {
	owner := s.ident.UserID()
	if owner == "" {
		return ErrNoIdentity
	}
	tasks, err := s.remote.TasksByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("fetching tasks: %w", err)
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}
