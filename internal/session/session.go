// Package session owns process-wide authentication state: the current user
// and their profile. Other components read the owner id from here instead of
// holding ambient globals.
package session

import (
	"context"
	"log"
	"sync"

	"chronoplan/internal/db/models"
)

// User is the identity the auth collaborator resolved.
type User struct {
	ID    string
	Email string
	Name  string // from provider metadata; may be empty
}

// Session is the auth collaborator's session object. A nil *Session means
// signed out.
type Session struct {
	User User
}

// AuthProvider is the out-of-process identity collaborator.
type AuthProvider interface {
	GetSession(ctx context.Context) (*Session, error)
	// OnAuthStateChange registers fn for future session transitions and
	// returns an unsubscribe function.
	OnAuthStateChange(fn func(*Session)) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) error
	SignUpWithPassword(ctx context.Context, email, password string) error
	SignInWithOAuth(ctx context.Context, provider string) error
	SignOut(ctx context.Context) error
}

// ProfileStore is the slice of the data store the session needs.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, p models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
}

// State is the session lifecycle position.
type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateAuthenticated
)

// Context tracks the current session. Create one per process session with
// New, call Start once, and Close on teardown.
type Context struct {
	auth     AuthProvider
	profiles ProfileStore

	mu      sync.Mutex
	state   State
	user    *User
	profile *models.Profile
	subs    map[int]func(State)
	nextSub int

	unsubOnce sync.Once
	unsub     func()
}

func New(auth AuthProvider, profiles ProfileStore) *Context {
	return &Context{
		auth:     auth,
		profiles: profiles,
		subs:     map[int]func(State){},
	}
}

// Start resolves the current session and subscribes to future auth changes.
// Profile data is fetched in the background; identity never waits on it.
func (c *Context) Start(ctx context.Context) error {
	c.setState(StateLoading, nil)

	sess, err := c.auth.GetSession(ctx)
	if err != nil {
		c.setState(StateUnauthenticated, nil)
		return err
	}
	c.handleSession(ctx, sess)

	c.unsub = c.auth.OnAuthStateChange(func(s *Session) {
		c.handleSession(context.Background(), s)
	})
	return nil
}

func (c *Context) handleSession(ctx context.Context, sess *Session) {
	if sess == nil {
		c.setState(StateUnauthenticated, nil)
		return
	}
	user := sess.User
	c.setState(StateAuthenticated, &user)

	go func() {
		if err := c.ensureProfile(ctx, user); err != nil {
			log.Printf("session: profile fetch: %v", err)
		}
	}()
}

// ensureProfile upserts a profile row from provider metadata, then loads
// the stored profile (which may already carry a base chronotype).
func (c *Context) ensureProfile(ctx context.Context, user User) error {
	name := user.Name
	if name == "" {
		name = user.Email
	}
	if name != "" {
		if err := c.profiles.UpsertProfile(ctx, models.Profile{ID: user.ID, Name: name}); err != nil {
			return err
		}
	}

	p, err := c.profiles.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.user != nil && c.user.ID == user.ID {
		c.profile = p
	}
	c.mu.Unlock()
	return nil
}

func (c *Context) setState(s State, user *User) {
	c.mu.Lock()
	c.state = s
	c.user = user
	if user == nil {
		c.profile = nil
	}
	var fns []func(State)
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Subscribe registers fn for state transitions and returns an unsubscribe
// function. Unsubscribing twice is a no-op.
func (c *Context) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// State returns the current lifecycle position.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UserID returns the current owner id, or "" when unauthenticated.
func (c *Context) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return ""
	}
	return c.user.ID
}

// Profile returns the loaded profile, or nil while it is still in flight.
func (c *Context) Profile() *models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// SignOut delegates to the provider; the resulting auth-change notification
// drives the state transition.
func (c *Context) SignOut(ctx context.Context) error {
	return c.auth.SignOut(ctx)
}

// Close tears down the auth subscription. Safe to call more than once.
func (c *Context) Close() {
	c.unsubOnce.Do(func() {
		if c.unsub != nil {
			c.unsub()
		}
	})
}
