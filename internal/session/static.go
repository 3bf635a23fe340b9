package session

import (
	"context"
	"errors"
	"sync"
)

// StaticProvider is an AuthProvider with one pre-configured identity, used
// when no external auth collaborator is wired in (local runs, tests).
type StaticProvider struct {
	mu      sync.Mutex
	user    *User
	subs    map[int]func(*Session)
	nextSub int
}

// NewStaticProvider returns a provider already signed in as user. Pass a
// zero-ID user for a signed-out provider.
func NewStaticProvider(user User) *StaticProvider {
	p := &StaticProvider{subs: map[int]func(*Session){}}
	if user.ID != "" {
		p.user = &user
	}
	return p
}

func (p *StaticProvider) session() *Session {
	if p.user == nil {
		return nil
	}
	return &Session{User: *p.user}
}

func (p *StaticProvider) GetSession(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session(), nil
}

func (p *StaticProvider) OnAuthStateChange(fn func(*Session)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *StaticProvider) notify() {
	p.mu.Lock()
	sess := p.session()
	var fns []func(*Session)
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}

// SetUser swaps the current identity and notifies listeners, simulating an
// auth-change event.
func (p *StaticProvider) SetUser(user *User) {
	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
	p.notify()
}

func (p *StaticProvider) SignInWithPassword(ctx context.Context, email, password string) error {
	return errors.New("password sign-in requires an external auth provider")
}

func (p *StaticProvider) SignUpWithPassword(ctx context.Context, email, password string) error {
	return errors.New("sign-up requires an external auth provider")
}

func (p *StaticProvider) SignInWithOAuth(ctx context.Context, provider string) error {
	return errors.New("OAuth sign-in requires an external auth provider")
}

func (p *StaticProvider) SignOut(ctx context.Context) error {
	p.SetUser(nil)
	return nil
}
